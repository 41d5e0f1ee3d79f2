package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
	"github.com/weaveai/weave-cli/internal/core/ports/driving"
	"github.com/weaveai/weave-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// Retrieval bounds. k <= 0 falls back to the configured default; any
// request is clamped to MaxTopK.
const (
	DefaultTopK = 5
	MaxTopK     = 20
)

// QueryService answers questions against the knowledge base: embed the
// query, retrieve evidence from the vector index, synthesise a grounded
// answer with completeness analysis.
type QueryService struct {
	store    driven.DocumentStore
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService
	prompts  driven.PromptStore
	config   driven.ConfigStore
}

// NewQueryService creates a new query service.
func NewQueryService(
	store driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	config driven.ConfigStore,
) *QueryService {
	return &QueryService{
		store:    store,
		index:    index,
		embedder: embedder,
		llm:      llm,
		prompts:  prompts,
		config:   config,
	}
}

// Retrieve returns the top-k evidence chunks for a question without
// synthesis. An empty index yields an empty slice, not an error.
func (s *QueryService) Retrieve(ctx context.Context, question string, k int) ([]domain.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	k = s.effectiveK(k)
	logger.Section("Retrieval")
	logger.Debug("Query: %q, k=%d", question, k)

	if s.index.Len() == 0 {
		logger.Debug("Index is empty")
		return []domain.QueryResult{}, nil
	}

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	return s.hydrate(ctx, hits)
}

// Query retrieves evidence and synthesises a grounded answer.
func (s *QueryService) Query(ctx context.Context, question string, k int) (*domain.Answer, error) {
	evidence, err := s.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}

	return s.synthesize(ctx, question, evidence)
}

// effectiveK resolves the retrieval depth from the request and config.
func (s *QueryService) effectiveK(k int) int {
	if k <= 0 {
		k = DefaultTopK
		if s.config != nil {
			if configured := s.config.GetInt(driven.ConfigTopK); configured > 0 {
				k = configured
			}
		}
	}
	if k > MaxTopK {
		k = MaxTopK
	}
	return k
}

// hydrate converts vector hits to query results, dropping hits whose
// chunk or document has been deleted or quarantined since indexing.
func (s *QueryService) hydrate(ctx context.Context, hits []driven.VectorHit) ([]domain.QueryResult, error) {
	results := make([]domain.QueryResult, 0, len(hits))

	for _, hit := range hits {
		chunk, err := s.store.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}

		doc, err := s.store.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
		}
		if doc.Quarantined {
			continue
		}

		results = append(results, domain.QueryResult{
			ChunkID:    chunk.ID,
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Content:    chunk.Content,
			Similarity: hit.Similarity,
		})
	}

	return results, nil
}
