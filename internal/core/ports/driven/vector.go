package driven

import "context"

// VectorIndex provides similarity search over chunk embeddings.
//
// Similarity metric: cosine similarity. Implementations must return hits
// in non-increasing similarity order with ties broken by chunk insertion
// order, because the raw values surface to users as "relevance".
type VectorIndex interface {
	// UpsertDocument replaces all vectors for a document with the given
	// entries. The swap is atomic with respect to Search.
	UpsertDocument(ctx context.Context, documentID string, entries []VectorEntry) error

	// DeleteDocument removes all vectors for a document.
	DeleteDocument(ctx context.Context, documentID string) error

	// Search finds the k most similar chunks to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorEntry is a chunk vector to be indexed.
type VectorEntry struct {
	// ChunkID is the chunk the vector belongs to.
	ChunkID string

	// Embedding is the chunk's vector representation.
	Embedding []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's parent document.
	DocumentID string

	// Similarity is the cosine similarity score clamped to [0,1].
	Similarity float64
}
