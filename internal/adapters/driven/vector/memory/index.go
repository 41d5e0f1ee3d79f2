// Package memory provides a brute-force in-memory vector index.
//
// The index is rebuilt from the document store at startup, so it never
// needs to persist anything itself. Brute-force cosine scan keeps results
// exact; at CLI-local corpus sizes an approximate structure buys nothing.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	chunkID    string
	documentID string
	embedding  []float32
}

// Index is an in-memory cosine similarity index over chunk embeddings.
// Document swaps are atomic with respect to Search.
type Index struct {
	mu      sync.RWMutex
	entries []entry
	dims    int
}

// NewIndex creates an empty index. The vector dimension is fixed by the
// first upsert; later vectors of a different dimension are rejected.
func NewIndex() *Index {
	return &Index{}
}

// UpsertDocument replaces all vectors for a document with the given
// entries. Existing vectors for other documents keep their insertion
// order; the new vectors append at the end.
func (idx *Index) UpsertDocument(_ context.Context, documentID string, entries []driven.VectorEntry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, e := range entries {
		if idx.dims == 0 {
			idx.dims = len(e.Embedding)
			continue
		}
		if len(e.Embedding) != idx.dims {
			return domain.ErrDimensionMismatch
		}
	}

	idx.removeLocked(documentID)
	for _, e := range entries {
		idx.entries = append(idx.entries, entry{
			chunkID:    e.ChunkID,
			documentID: documentID,
			embedding:  e.Embedding,
		})
	}
	return nil
}

// DeleteDocument removes all vectors for a document.
func (idx *Index) DeleteDocument(_ context.Context, documentID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(documentID)
	return nil
}

// removeLocked drops every entry belonging to documentID. Caller holds
// the write lock.
func (idx *Index) removeLocked(documentID string) {
	kept := idx.entries[:0]
	for _, e := range idx.entries {
		if e.documentID != documentID {
			kept = append(kept, e)
		}
	}
	idx.entries = kept
}

// Search finds the k most similar chunks to the query vector. Hits are
// ordered by non-increasing similarity; ties resolve to the earlier
// inserted chunk so identical corpora rank identically across runs.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 || k <= 0 {
		return nil, nil
	}
	if idx.dims != 0 && len(query) != idx.dims {
		return nil, domain.ErrDimensionMismatch
	}

	hits := make([]driven.VectorHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		hits = append(hits, driven.VectorHit{
			ChunkID:    e.chunkID,
			DocumentID: e.documentID,
			Similarity: cosineSimilarity(query, e.embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases resources. The in-memory index holds none.
func (idx *Index) Close() error {
	return nil
}

// cosineSimilarity computes cosine similarity clamped to [0,1].
// A zero-magnitude vector has no direction and scores 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
