package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
	"github.com/weaveai/weave-cli/internal/core/ports/driving"
	"github.com/weaveai/weave-cli/internal/logger"
)

// Ensure EnrichmentService implements the interface.
var _ driving.EnrichmentService = (*EnrichmentService)(nil)

// Dedup thresholds. A gap is considered already addressed when a
// recorded topic embedding is this similar to the new one, or when an
// indexed chunk matches the topic this closely.
const (
	DefaultTopicDedupThreshold = 0.90
	ChunkDedupThreshold        = 0.92
)

// slugMaxLen bounds the filename slug derived from the trigger query.
const slugMaxLen = 20

// slugStopWords are dropped when deriving the filename slug.
var slugStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "do": true,
	"does": true, "for": true, "how": true, "in": true, "is": true,
	"of": true, "or": true, "the": true, "to": true, "what": true,
	"when": true, "where": true, "which": true, "why": true,
}

// EnrichmentService closes detected knowledge gaps: it generates content
// for a query whose answer was incomplete and ingests it as a new
// auto-enriched document. Each attempt walks an explicit state machine
// (candidate, deduping, generating, ingesting); any failure leaves the
// store exactly as before the attempt.
type EnrichmentService struct {
	ledger   driven.EnrichmentStore
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService
	prompts  driven.PromptStore
	config   driven.ConfigStore
	ingest   driving.IngestService
	indexer  *IndexService
}

// NewEnrichmentService creates a new enrichment orchestrator.
func NewEnrichmentService(
	ledger driven.EnrichmentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	config driven.ConfigStore,
	ingest driving.IngestService,
	indexer *IndexService,
) *EnrichmentService {
	return &EnrichmentService{
		ledger:   ledger,
		index:    index,
		embedder: embedder,
		llm:      llm,
		prompts:  prompts,
		config:   config,
		ingest:   ingest,
		indexer:  indexer,
	}
}

// Enrich runs one pass of the enrichment state machine for a query
// whose prior answer exposed a gap. Dedup short-circuits to a NoOp
// outcome; enriching the same gap twice never creates a second document.
func (s *EnrichmentService) Enrich(
	ctx context.Context, query string, prior *domain.Answer,
) (*domain.EnrichmentOutcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	logger.Section("Enrichment")
	logger.Debug("Trigger query: %q", query)

	// Candidate: a prior answer without gaps is not a candidate.
	if prior != nil && !prior.HasGaps() {
		logger.Info("Prior answer reported no gaps, nothing to enrich")
		return &domain.EnrichmentOutcome{NoOp: true}, nil
	}

	// Deduping.
	topicEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &domain.EnrichmentError{State: domain.EnrichmentDeduping,
			Err: fmt.Errorf("embed topic: %w", err)}
	}

	if outcome, err := s.dedup(ctx, query, topicEmbedding); err != nil {
		return nil, err
	} else if outcome != nil {
		return outcome, nil
	}

	// Generating.
	content, err := s.generate(ctx, query)
	if err != nil {
		return nil, err
	}

	// Ingesting.
	filename := enrichmentFilename(query, time.Now())
	doc, added, err := s.ingest.IngestText(ctx, filename, content, domain.SourceAutoEnriched)
	if err != nil {
		return nil, &domain.EnrichmentError{State: domain.EnrichmentIngesting, Err: err}
	}
	if added == 0 {
		// Content-hash dedup inside ingestion: the generated text
		// already exists verbatim, so nothing new was indexed.
		logger.Info("Generated content matched existing document %s, no-op", doc.ID)
		return &domain.EnrichmentOutcome{NoOp: true}, nil
	}

	record := domain.EnrichmentRecord{
		ID:                  uuid.New().String(),
		TriggerQuery:        query,
		TopicSummary:        domain.NormaliseQuery(query),
		GeneratedDocumentID: doc.ID,
		TopicEmbedding:      topicEmbedding,
		GeneratedAt:         time.Now(),
	}
	if err := s.ledger.Save(ctx, record); err != nil {
		// The document must not outlive a failed attempt: with no
		// ledger record, a retry would regenerate it as a duplicate.
		if delErr := s.indexer.Delete(ctx, doc.ID); delErr != nil {
			logger.Warn("Removing enrichment document %s after ledger failure: %v", doc.ID, delErr)
		}
		return nil, &domain.EnrichmentError{State: domain.EnrichmentIngesting,
			Err: fmt.Errorf("record enrichment: %w", err)}
	}

	logger.Info("Enriched %q: document %s, %d chunks", query, doc.ID, added)
	return &domain.EnrichmentOutcome{
		Record:      &record,
		ChunksAdded: added,
	}, nil
}

// History returns the enrichment ledger, newest first.
func (s *EnrichmentService) History(ctx context.Context) ([]domain.EnrichmentRecord, error) {
	return s.ledger.List(ctx)
}

// dedup checks, in order: an exact normalised-query ledger match, a
// semantically close recorded topic, and a near-duplicate indexed chunk.
// Returns a NoOp outcome when the gap was already addressed.
func (s *EnrichmentService) dedup(
	ctx context.Context, query string, topicEmbedding []float32,
) (*domain.EnrichmentOutcome, error) {
	normalised := domain.NormaliseQuery(query)

	record, err := s.ledger.FindByQuery(ctx, normalised)
	if err == nil {
		logger.Info("Gap already enriched (exact query match): record %s", record.ID)
		return &domain.EnrichmentOutcome{NoOp: true, Record: record}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.EnrichmentError{State: domain.EnrichmentDeduping, Err: err}
	}

	records, err := s.ledger.List(ctx)
	if err != nil {
		return nil, &domain.EnrichmentError{State: domain.EnrichmentDeduping, Err: err}
	}
	threshold := s.topicThreshold()
	for i := range records {
		sim := cosine(topicEmbedding, records[i].TopicEmbedding)
		if sim >= threshold {
			logger.Info("Gap already enriched (topic similarity %.3f): record %s", sim, records[i].ID)
			return &domain.EnrichmentOutcome{NoOp: true, Record: &records[i]}, nil
		}
	}

	if s.index != nil && s.index.Len() > 0 {
		hits, err := s.index.Search(ctx, topicEmbedding, 1)
		if err != nil {
			return nil, &domain.EnrichmentError{State: domain.EnrichmentDeduping, Err: err}
		}
		if len(hits) > 0 && hits[0].Similarity >= ChunkDedupThreshold {
			logger.Info("Gap already covered by chunk %s (similarity %.3f)", hits[0].ChunkID, hits[0].Similarity)
			return &domain.EnrichmentOutcome{NoOp: true}, nil
		}
	}

	return nil, nil
}

// generate asks the LLM for knowledge-base content on the gap.
func (s *EnrichmentService) generate(ctx context.Context, query string) (string, error) {
	template, err := s.prompts.Load(driven.PromptEnrichment)
	if err != nil {
		return "", &domain.EnrichmentError{State: domain.EnrichmentGenerating,
			Err: fmt.Errorf("load enrichment prompt: %w", err)}
	}

	logger.Debug("Generating content with %s", s.llm.ModelName())
	content, err := s.llm.Generate(ctx, fmt.Sprintf(template, query), driven.GenerateOptions{
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return "", &domain.EnrichmentError{State: domain.EnrichmentGenerating, Err: err}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", &domain.EnrichmentError{State: domain.EnrichmentGenerating,
			Err: fmt.Errorf("model returned empty content")}
	}

	return content, nil
}

// topicThreshold resolves the topic dedup threshold from config.
func (s *EnrichmentService) topicThreshold() float64 {
	if s.config != nil {
		if t := s.config.GetFloat(driven.ConfigDedupThreshold); t > 0 && t <= 1 {
			return t
		}
	}
	return DefaultTopicDedupThreshold
}

// enrichmentFilename derives a deterministic, collision-resistant
// filename for an auto-enriched document.
func enrichmentFilename(query string, now time.Time) string {
	return fmt.Sprintf("auto_enriched_%s_%d.txt", querySlug(query), now.Unix())
}

// querySlug builds a short underscore-joined slug from the significant
// words of the query.
func querySlug(query string) string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(domain.NormaliseQuery(query))) {
		word = strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, word)
		if word == "" || slugStopWords[word] {
			continue
		}
		words = append(words, word)
	}

	slug := strings.Join(words, "_")
	if slug == "" {
		slug = "topic"
	}
	if len(slug) > slugMaxLen {
		slug = strings.TrimRight(slug[:slugMaxLen], "_")
	}
	return slug
}

// cosine computes cosine similarity clamped to [0,1].
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

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
