package driven

import (
	"context"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// EnrichmentStore persists the enrichment ledger. Records are created on
// successful enrichment and never mutated; the orchestrator consults them
// before generating to avoid re-enriching the same gap.
type EnrichmentStore interface {
	// Save appends a ledger record.
	Save(ctx context.Context, record domain.EnrichmentRecord) error

	// FindByQuery returns the record whose normalised trigger query
	// matches, or domain.ErrNotFound.
	FindByQuery(ctx context.Context, normalisedQuery string) (*domain.EnrichmentRecord, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]domain.EnrichmentRecord, error)
}
