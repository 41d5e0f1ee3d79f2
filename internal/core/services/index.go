package services

import (
	"context"
	"errors"
	"sync"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
	"github.com/weaveai/weave-cli/internal/logger"
)

// indexAttempts is how many times a store commit is retried before the
// document is quarantined.
const indexAttempts = 3

// IndexService keeps the document store and the in-memory vector index
// consistent. All writes for a document serialize on a per-document
// mutex; the SQLite transaction is the commit point and the vector
// index is updated only after a successful commit.
//
// Commits run under context.WithoutCancel so a cancelled caller never
// leaves a half-applied write.
type IndexService struct {
	store driven.DocumentStore
	index driven.VectorIndex

	locks sync.Map // documentID -> *sync.Mutex
}

// NewIndexService creates a new index consistency service.
func NewIndexService(store driven.DocumentStore, index driven.VectorIndex) *IndexService {
	return &IndexService{
		store: store,
		index: index,
	}
}

// Upsert atomically replaces a document and its chunk set in the store,
// then mirrors the chunk vectors into the vector index. Transient
// failures are retried; if retries exhaust, the document is quarantined
// and a *domain.ConsistencyError is returned.
func (s *IndexService) Upsert(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	mu := s.lockFor(doc.ID)
	mu.Lock()
	defer mu.Unlock()

	commitCtx := context.WithoutCancel(ctx)

	var lastErr error
	for attempt := 1; attempt <= indexAttempts; attempt++ {
		if err := s.store.ReplaceDocument(commitCtx, doc, chunks); err != nil {
			logger.Warn("Upsert %s: store commit failed (attempt %d/%d): %v",
				doc.ID, attempt, indexAttempts, err)
			lastErr = err
			continue
		}

		if err := s.mirror(commitCtx, doc.ID, chunks); err != nil {
			logger.Warn("Upsert %s: vector mirror failed (attempt %d/%d): %v",
				doc.ID, attempt, indexAttempts, err)
			lastErr = err
			continue
		}

		return nil
	}

	s.quarantine(commitCtx, doc.ID)
	return &domain.ConsistencyError{DocumentID: doc.ID, Op: "upsert", Err: lastErr}
}

// Delete removes a document from the store and the vector index.
// Deleting an unknown document returns domain.ErrNotFound without
// retrying.
func (s *IndexService) Delete(ctx context.Context, documentID string) error {
	mu := s.lockFor(documentID)
	mu.Lock()
	defer mu.Unlock()

	commitCtx := context.WithoutCancel(ctx)

	var lastErr error
	for attempt := 1; attempt <= indexAttempts; attempt++ {
		if err := s.store.DeleteDocument(commitCtx, documentID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			logger.Warn("Delete %s: store commit failed (attempt %d/%d): %v",
				documentID, attempt, indexAttempts, err)
			lastErr = err
			continue
		}

		if err := s.index.DeleteDocument(commitCtx, documentID); err != nil {
			logger.Warn("Delete %s: vector removal failed (attempt %d/%d): %v",
				documentID, attempt, indexAttempts, err)
			lastErr = err
			continue
		}

		return nil
	}

	s.quarantine(commitCtx, documentID)
	return &domain.ConsistencyError{DocumentID: documentID, Op: "delete", Err: lastErr}
}

// Rebuild repopulates the vector index from the document store. Called
// at startup so index contents always match committed metadata.
// Quarantined documents are excluded from the index.
func (s *IndexService) Rebuild(ctx context.Context) error {
	logger.Section("Vector Index Rebuild")

	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return err
	}

	quarantined := make(map[string]bool)
	for _, doc := range docs {
		if doc.Quarantined {
			quarantined[doc.ID] = true
		}
	}

	chunks, err := s.store.AllChunks(ctx)
	if err != nil {
		return err
	}

	// Group by document, preserving insertion order within each group.
	byDoc := make(map[string][]domain.Chunk)
	var order []string
	for _, chunk := range chunks {
		if quarantined[chunk.DocumentID] {
			continue
		}
		if _, ok := byDoc[chunk.DocumentID]; !ok {
			order = append(order, chunk.DocumentID)
		}
		byDoc[chunk.DocumentID] = append(byDoc[chunk.DocumentID], chunk)
	}

	for _, docID := range order {
		if err := s.mirror(ctx, docID, byDoc[docID]); err != nil {
			return &domain.ConsistencyError{DocumentID: docID, Op: "rebuild", Err: err}
		}
	}

	logger.Info("Rebuilt vector index: %d documents, %d vectors", len(order), s.index.Len())
	return nil
}

// mirror swaps a document's vectors in the index.
func (s *IndexService) mirror(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	entries := make([]driven.VectorEntry, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			continue
		}
		entries = append(entries, driven.VectorEntry{
			ChunkID:   chunk.ID,
			Embedding: chunk.Embedding,
		})
	}
	return s.index.UpsertDocument(ctx, documentID, entries)
}

// quarantine flags a document and drops its vectors so a half-applied
// write never surfaces in search. Failures here are logged, not
// returned: the ConsistencyError from the caller is the primary signal.
func (s *IndexService) quarantine(ctx context.Context, documentID string) {
	if err := s.store.SetQuarantined(ctx, documentID, true); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Quarantine %s failed: %v", documentID, err)
	}
	if err := s.index.DeleteDocument(ctx, documentID); err != nil {
		logger.Warn("Quarantine %s: vector removal failed: %v", documentID, err)
	}
	logger.Info("Document %s quarantined after %d failed attempts", documentID, indexAttempts)
}

// lockFor returns the mutex serializing writes for a document.
func (s *IndexService) lockFor(documentID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(documentID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
