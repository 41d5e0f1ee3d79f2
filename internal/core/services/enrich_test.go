package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storemem "github.com/weaveai/weave-cli/internal/adapters/driven/storage/memory"
	vectormem "github.com/weaveai/weave-cli/internal/adapters/driven/vector/memory"
	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/normalisers"
	"github.com/weaveai/weave-cli/internal/normalisers/plaintext"
	"github.com/weaveai/weave-cli/internal/postprocessors"
	"github.com/weaveai/weave-cli/internal/postprocessors/chunker"
)

// enrichHarness wires a full enrichment stack: real ingest pipeline and
// vector index, mock embedder and LLM.
type enrichHarness struct {
	service  *EnrichmentService
	ingest   *IngestService
	indexer  *IndexService
	store    *storemem.DocumentStore
	ledger   *storemem.EnrichmentStore
	index    *vectormem.Index
	embedder *mockEmbeddingService
	llm      *mockLLMService
}

func newEnrichHarness(t *testing.T) *enrichHarness {
	t.Helper()

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	pipeline := postprocessors.NewPipeline(chunker.New())

	store := storemem.NewDocumentStore()
	ledger := storemem.NewEnrichmentStore()
	index := vectormem.NewIndex()
	embedder := &mockEmbeddingService{
		embedding: []float32{0, 1, 0},
		byText:    map[string][]float32{},
	}
	llm := &mockLLMService{generateReply: "Blue-green deployment keeps two environments and switches traffic after verification."}

	indexer := NewIndexService(store, index)
	ingest := NewIngestService(registry, pipeline, embedder, store, indexer)

	service := NewEnrichmentService(ledger, index, embedder, llm, newMockPromptStore(), storemem.NewConfigStore(), ingest, indexer)

	return &enrichHarness{
		service:  service,
		ingest:   ingest,
		indexer:  indexer,
		store:    store,
		ledger:   ledger,
		index:    index,
		embedder: embedder,
		llm:      llm,
	}
}

// gapAnswer is a prior answer that reported missing information.
func gapAnswer() *domain.Answer {
	return &domain.Answer{
		Text:        "Not fully documented.",
		Confidence:  0.3,
		MissingInfo: []string{"rollback procedure"},
	}
}

func TestEnrich_HappyPath(t *testing.T) {
	h := newEnrichHarness(t)
	ctx := context.Background()

	outcome, err := h.service.Enrich(ctx, "How do deploy rollbacks work?", gapAnswer())

	require.NoError(t, err)
	assert.False(t, outcome.NoOp)
	assert.Positive(t, outcome.ChunksAdded)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, "How do deploy rollbacks work?", outcome.Record.TriggerQuery)

	doc, err := h.store.GetDocument(ctx, outcome.Record.GeneratedDocumentID)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceAutoEnriched, doc.SourceType)
	assert.True(t, strings.HasPrefix(doc.Filename, "auto_enriched_"))
	assert.True(t, strings.HasSuffix(doc.Filename, ".txt"))

	records, err := h.ledger.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEnrich_SecondCallIsNoOp(t *testing.T) {
	h := newEnrichHarness(t)
	ctx := context.Background()

	first, err := h.service.Enrich(ctx, "How do deploy rollbacks work?", gapAnswer())
	require.NoError(t, err)
	require.False(t, first.NoOp)

	// Same gap, different casing and punctuation.
	second, err := h.service.Enrich(ctx, "how do deploy rollbacks work", gapAnswer())
	require.NoError(t, err)

	assert.True(t, second.NoOp)
	require.NotNil(t, second.Record)
	assert.Equal(t, first.Record.ID, second.Record.ID)

	docs, err := h.store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestEnrich_TopicSimilarityDedup(t *testing.T) {
	h := newEnrichHarness(t)
	ctx := context.Background()

	// Two distinct query strings with near-identical topic embeddings.
	h.embedder.byText["How do deploy rollbacks work?"] = []float32{0, 1, 0}
	h.embedder.byText["What is the rollback process for deploys?"] = []float32{0.05, 0.99, 0}

	first, err := h.service.Enrich(ctx, "How do deploy rollbacks work?", gapAnswer())
	require.NoError(t, err)
	require.False(t, first.NoOp)

	second, err := h.service.Enrich(ctx, "What is the rollback process for deploys?", gapAnswer())
	require.NoError(t, err)

	assert.True(t, second.NoOp)
	require.NotNil(t, second.Record)
	assert.Equal(t, first.Record.ID, second.Record.ID)
}

func TestEnrich_ChunkSimilarityDedup(t *testing.T) {
	h := newEnrichHarness(t)
	ctx := context.Background()

	// Index existing content whose chunk embedding matches the topic.
	h.embedder.byText["Rollbacks are fully documented here."] = []float32{0, 1, 0}
	_, _, err := h.ingest.IngestText(ctx, "existing.txt", "Rollbacks are fully documented here.", domain.SourceOriginal)
	require.NoError(t, err)

	h.embedder.byText["How do rollbacks work?"] = []float32{0, 1, 0}
	outcome, err := h.service.Enrich(ctx, "How do rollbacks work?", gapAnswer())

	require.NoError(t, err)
	assert.True(t, outcome.NoOp)
	assert.Zero(t, h.llm.generateCalls, "dedup must short-circuit before generation")
}

func TestEnrich_PriorAnswerWithoutGaps(t *testing.T) {
	h := newEnrichHarness(t)

	outcome, err := h.service.Enrich(context.Background(), "anything", &domain.Answer{Text: "complete"})

	require.NoError(t, err)
	assert.True(t, outcome.NoOp)
	assert.Zero(t, h.llm.generateCalls)
}

func TestEnrich_GenerationFailureLeavesStoreUntouched(t *testing.T) {
	h := newEnrichHarness(t)
	h.llm.generateErr = domain.NewSynthesisError(domain.SynthesisTimeout, assert.AnError)
	ctx := context.Background()

	_, err := h.service.Enrich(ctx, "How do rollbacks work?", gapAnswer())

	require.Error(t, err)
	var enrichErr *domain.EnrichmentError
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, domain.EnrichmentGenerating, enrichErr.State)

	docs, listErr := h.store.ListDocuments(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, docs)

	records, listErr := h.ledger.List(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

func TestEnrich_LedgerFailureRollsBackDocument(t *testing.T) {
	h := newEnrichHarness(t)
	ledger := &failingEnrichmentStore{EnrichmentStore: h.ledger, saveErr: assert.AnError}
	service := NewEnrichmentService(ledger, h.index, h.embedder, h.llm,
		newMockPromptStore(), storemem.NewConfigStore(), h.ingest, h.indexer)
	ctx := context.Background()

	_, err := service.Enrich(ctx, "How do rollbacks work?", gapAnswer())

	require.Error(t, err)
	var enrichErr *domain.EnrichmentError
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, domain.EnrichmentIngesting, enrichErr.State)

	// The generated document must not survive the failed attempt:
	// without a ledger record, retrying would index it twice.
	docs, listErr := h.store.ListDocuments(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, docs)
	assert.Zero(t, h.index.Len())
}

func TestEnrich_EmptyGeneratedContent(t *testing.T) {
	h := newEnrichHarness(t)
	h.llm.generateReply = "   "

	_, err := h.service.Enrich(context.Background(), "How do rollbacks work?", gapAnswer())

	var enrichErr *domain.EnrichmentError
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, domain.EnrichmentGenerating, enrichErr.State)
}

func TestEnrich_EmptyQuery(t *testing.T) {
	h := newEnrichHarness(t)

	_, err := h.service.Enrich(context.Background(), "  ", gapAnswer())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_NewestFirst(t *testing.T) {
	h := newEnrichHarness(t)
	ctx := context.Background()

	_, err := h.service.Enrich(ctx, "first gap?", gapAnswer())
	require.NoError(t, err)
	// Distinct topic embedding so dedup does not short-circuit.
	h.embedder.byText["second gap?"] = []float32{1, 0, 0}
	h.llm.generateReply = "Different generated content for the second gap."
	_, err = h.service.Enrich(ctx, "second gap?", gapAnswer())
	require.NoError(t, err)

	records, err := h.service.History(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second gap?", records[0].TriggerQuery)
}

func TestEnrichmentFilename(t *testing.T) {
	now := time.Unix(1700000000, 0)

	name := enrichmentFilename("What is the deploy rollback procedure?", now)

	assert.Equal(t, "auto_enriched_deploy_rollback_proc_1700000000.txt", name)
}

func TestQuerySlug(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"What is the deploy rollback procedure?", "deploy_rollback_proc"},
		{"How does DNS work?", "dns_work"},
		{"the a an of", "topic"},
		{"supercalifragilistic expialidocious topic", "supercalifragilistic"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, querySlug(tt.query), "query %q", tt.query)
	}
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	// Negative similarity clamps to zero.
	assert.Zero(t, cosine([]float32{1, 0}, []float32{-1, 0}))
	// Mismatched or empty vectors score zero.
	assert.Zero(t, cosine([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosine(nil, nil))
}
