package driving

import (
	"context"
	"time"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// DocumentService manages indexed documents.
type DocumentService interface {
	// List returns metadata for all documents.
	List(ctx context.Context) ([]DocumentDetails, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent returns the concatenated content of all chunks.
	GetContent(ctx context.Context, documentID string) (string, error)

	// Delete removes a document and all its chunks atomically.
	Delete(ctx context.Context, documentID string) error
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// Filename is the display filename.
	Filename string

	// SourceType distinguishes uploads from enrichment output.
	SourceType domain.SourceType

	// ChunkCount is the number of chunks.
	ChunkCount int

	// Quarantined indicates the document is excluded from search.
	Quarantined bool

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time
}
