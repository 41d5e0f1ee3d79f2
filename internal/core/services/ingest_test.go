package services

import (
	"context"
	"testing"

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

// ingestHarness wires an IngestService against in-memory adapters.
type ingestHarness struct {
	service  *IngestService
	store    *storemem.DocumentStore
	index    *vectormem.Index
	embedder *mockEmbeddingService
}

func newIngestHarness(t *testing.T) *ingestHarness {
	t.Helper()

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())

	pipeline := postprocessors.NewPipeline(chunker.New(
		chunker.WithChunkSize(50),
		chunker.WithOverlap(10),
	))

	store := storemem.NewDocumentStore()
	index := vectormem.NewIndex()
	embedder := &mockEmbeddingService{embedding: []float32{0.1, 0.2, 0.3}}
	indexer := NewIndexService(store, index)

	return &ingestHarness{
		service:  NewIngestService(registry, pipeline, embedder, store, indexer),
		store:    store,
		index:    index,
		embedder: embedder,
	}
}

func textRaw(filename, content string) *domain.RawDocument {
	return &domain.RawDocument{
		Filename: filename,
		MIMEType: "text/plain",
		Content:  []byte(content),
	}
}

func TestIngest_EndToEnd(t *testing.T) {
	h := newIngestHarness(t)

	doc, err := h.service.Ingest(context.Background(), textRaw("notes.txt", "The deploy process uses blue-green rollouts with a manual approval gate."))

	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.NotEmpty(t, doc.ContentHash)
	assert.Equal(t, domain.SourceOriginal, doc.SourceType)

	chunks, err := h.store.GetChunks(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, chunk.Embedding)
		assert.Equal(t, domain.ChunkID(doc.ID, chunk.Position), chunk.ID)
	}

	assert.Equal(t, len(chunks), h.index.Len())
}

func TestIngest_DuplicateContentReturnsExisting(t *testing.T) {
	h := newIngestHarness(t)
	ctx := context.Background()

	first, err := h.service.Ingest(ctx, textRaw("a.txt", "identical content"))
	require.NoError(t, err)

	second, err := h.service.Ingest(ctx, textRaw("b.txt", "identical content"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	docs, err := h.store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestIngest_UnsupportedMIMEType(t *testing.T) {
	h := newIngestHarness(t)

	_, err := h.service.Ingest(context.Background(), &domain.RawDocument{
		Filename: "img.png",
		MIMEType: "image/png",
		Content:  []byte{0x89, 0x50},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIngest_NilAndEmptyInput(t *testing.T) {
	h := newIngestHarness(t)

	_, err := h.service.Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.service.Ingest(context.Background(), textRaw("empty.txt", ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_WhitespaceOnlyContent(t *testing.T) {
	h := newIngestHarness(t)

	_, err := h.service.Ingest(context.Background(), textRaw("blank.txt", "   \n\n\t  "))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoChunks)
}

func TestIngest_EmbeddingFailureLeavesStoreUntouched(t *testing.T) {
	h := newIngestHarness(t)
	h.embedder.embedErr = assert.AnError

	_, err := h.service.Ingest(context.Background(), textRaw("notes.txt", "some content"))

	require.Error(t, err)
	docs, listErr := h.store.ListDocuments(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, docs)
	assert.Zero(t, h.index.Len())
}

func TestIngestText_CreatesAutoEnrichedDocument(t *testing.T) {
	h := newIngestHarness(t)

	doc, added, err := h.service.IngestText(
		context.Background(), "auto_enriched_rollouts_1.txt",
		"Blue-green deployment keeps two production environments.",
		domain.SourceAutoEnriched,
	)

	require.NoError(t, err)
	assert.Positive(t, added)
	assert.Equal(t, domain.SourceAutoEnriched, doc.SourceType)
	assert.Equal(t, "auto_enriched_rollouts_1.txt", doc.Filename)
}

func TestIngestText_DuplicateHashIsNoOp(t *testing.T) {
	h := newIngestHarness(t)
	ctx := context.Background()

	first, added, err := h.service.IngestText(ctx, "one.txt", "same text", domain.SourceOriginal)
	require.NoError(t, err)
	require.Positive(t, added)

	second, added, err := h.service.IngestText(ctx, "two.txt", "same text", domain.SourceOriginal)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, first.ID, second.ID)
}

func TestIngestText_InvalidInput(t *testing.T) {
	h := newIngestHarness(t)

	_, _, err := h.service.IngestText(context.Background(), "x.txt", "  ", domain.SourceOriginal)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = h.service.IngestText(context.Background(), "x.txt", "text", domain.SourceType("bogus"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
