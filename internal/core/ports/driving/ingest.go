package driving

import (
	"context"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// IngestService runs the ingestion path: extraction, chunking, embedding
// and index upsert.
type IngestService interface {
	// Ingest processes a raw document end to end and returns the stored
	// document. Re-ingesting identical content (same hash) returns the
	// existing document without creating a second one.
	Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// IngestText ingests already-extracted plain text under the given
	// filename and source type. Used by the enrichment orchestrator.
	IngestText(ctx context.Context, filename, text string, sourceType domain.SourceType) (*domain.Document, int, error)
}
