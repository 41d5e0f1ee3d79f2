package domain

import (
	"fmt"
	"time"
)

// Document represents an indexed document with metadata.
// It is the canonical representation after text extraction.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original upload filename (or the derived filename
	// for auto-enriched documents).
	Filename string

	// ContentHash is the hex-encoded SHA-256 of the extracted text.
	// Used for re-ingestion detection and enrichment deduplication.
	ContentHash string

	// SourceType distinguishes user uploads from enrichment output.
	SourceType SourceType

	// Content is the full extracted text before chunking.
	Content string

	// Quarantined is set when index consistency repair exhausted its
	// retries; the document is kept visible but excluded from search.
	Quarantined bool

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk represents a searchable unit within a document.
// Documents are split into chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk, derived from the parent
	// document ID and position so it is stable across re-ingestion.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// ChunkID derives the stable chunk identifier for a document position.
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s_%d", documentID, position)
}
