package driving

import (
	"context"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// EnrichmentService closes detected knowledge gaps by synthesising and
// ingesting new content. Invoked explicitly by the caller after
// reviewing an answer, never automatically.
type EnrichmentService interface {
	// Enrich runs the enrichment state machine for a query whose prior
	// answer exposed a gap. Returns a NoOp outcome when dedup detects
	// the gap was already addressed.
	Enrich(ctx context.Context, query string, prior *domain.Answer) (*domain.EnrichmentOutcome, error)

	// History returns the enrichment ledger, newest first.
	History(ctx context.Context) ([]domain.EnrichmentRecord, error)
}
