package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

// Ensure EnrichmentStore implements the interface.
var _ driven.EnrichmentStore = (*EnrichmentStore)(nil)

// EnrichmentStore is an in-memory implementation of driven.EnrichmentStore.
type EnrichmentStore struct {
	mu      sync.RWMutex
	records []domain.EnrichmentRecord
}

// NewEnrichmentStore creates a new in-memory enrichment store.
func NewEnrichmentStore() *EnrichmentStore {
	return &EnrichmentStore{}
}

// Save appends a ledger record.
func (s *EnrichmentStore) Save(_ context.Context, record domain.EnrichmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// FindByQuery returns the record whose normalised trigger query matches.
func (s *EnrichmentStore) FindByQuery(_ context.Context, normalisedQuery string) (*domain.EnrichmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.records) - 1; i >= 0; i-- {
		if domain.NormaliseQuery(s.records[i].TriggerQuery) == normalisedQuery {
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all records, newest first.
func (s *EnrichmentStore) List(_ context.Context) ([]domain.EnrichmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := append([]domain.EnrichmentRecord(nil), s.records...)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].GeneratedAt.After(records[j].GeneratedAt)
	})
	return records, nil
}
