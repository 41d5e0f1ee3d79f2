package driven

import (
	"context"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for metadata and embedding storage.
//
// The store is the single source of truth: the in-memory vector index is
// rebuilt from it at startup, so a committed transaction here defines
// what the index must contain.
type DocumentStore interface {
	// ReplaceDocument atomically writes a document and its full chunk
	// set, removing any chunks a previous version of the document had.
	// Either everything is committed or nothing is.
	ReplaceDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByHash retrieves a document by content hash.
	// Returns domain.ErrNotFound when no document matches.
	GetDocumentByHash(ctx context.Context, contentHash string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// AllChunks streams every stored chunk in insertion order.
	// Used to rebuild the vector index at startup.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)

	// DeleteDocument removes a document and its chunks in one
	// transaction. Deleting an unknown ID returns domain.ErrNotFound.
	DeleteDocument(ctx context.Context, id string) error

	// SetQuarantined flags or unflags a document as quarantined.
	SetQuarantined(ctx context.Context, id string, quarantined bool) error

	// ListDocuments returns all documents without their Content field
	// populated, ordered by creation time.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
