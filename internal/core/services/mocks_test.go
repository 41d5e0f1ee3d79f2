package services

import (
	"context"
	"fmt"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

// --- Shared mock implementations ---

// mockEmbeddingService returns a fixed embedding, or per-text embeddings
// from the byText map when populated.
type mockEmbeddingService struct {
	embedding []float32
	byText    map[string][]float32
	embedErr  error
	calls     int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.byText[text]; ok {
		return v, nil
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := m.byText[text]; ok {
			result[i] = v
		} else {
			result[i] = m.embedding
		}
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockLLMService returns canned replies.
type mockLLMService struct {
	generateReply string
	generateErr   error
	chatReply     string
	chatErr       error
	lastMessages  []driven.ChatMessage
	lastOpts      driven.ChatOptions
	generateCalls int
}

func (m *mockLLMService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	m.generateCalls++
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.generateReply, nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.lastMessages = messages
	m.lastOpts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatReply, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockPromptStore serves the embedded default prompts.
type mockPromptStore struct {
	prompts map[string]string
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptSynthesis:  "Answer from context only. Respond in JSON.",
		driven.PromptEnrichment: "Write an article answering: %s",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	prompt, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return prompt, nil
}

func (m *mockPromptStore) Reload() {}

// mockVectorIndex records calls and can fail a set number of times.
type mockVectorIndex struct {
	hits       []driven.VectorHit
	searchErr  error
	upsertErr  error
	failures   int // fail this many upserts before succeeding
	upserts    int
	deletes    []string
	deleteErr  error
	indexedLen int
	lastK      int
}

func (m *mockVectorIndex) UpsertDocument(_ context.Context, _ string, entries []driven.VectorEntry) error {
	m.upserts++
	if m.failures > 0 {
		m.failures--
		return fmt.Errorf("transient upsert failure")
	}
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.indexedLen += len(entries)
	return nil
}

func (m *mockVectorIndex) DeleteDocument(_ context.Context, documentID string) error {
	m.deletes = append(m.deletes, documentID)
	return m.deleteErr
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int {
	if m.indexedLen > 0 {
		return m.indexedLen
	}
	return len(m.hits)
}

func (m *mockVectorIndex) Close() error { return nil }

// failingEnrichmentStore wraps an EnrichmentStore and fails Save.
type failingEnrichmentStore struct {
	driven.EnrichmentStore
	saveErr error
}

func (f *failingEnrichmentStore) Save(ctx context.Context, record domain.EnrichmentRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.EnrichmentStore.Save(ctx, record)
}

// failingDocStore wraps a DocumentStore and fails ReplaceDocument a set
// number of times before delegating.
type failingDocStore struct {
	driven.DocumentStore
	replaceFailures int
	deleteFailures  int
}

func (f *failingDocStore) ReplaceDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if f.replaceFailures > 0 {
		f.replaceFailures--
		return fmt.Errorf("transient store failure")
	}
	return f.DocumentStore.ReplaceDocument(ctx, doc, chunks)
}

func (f *failingDocStore) DeleteDocument(ctx context.Context, id string) error {
	if f.deleteFailures > 0 {
		f.deleteFailures--
		return fmt.Errorf("transient store failure")
	}
	return f.DocumentStore.DeleteDocument(ctx, id)
}
