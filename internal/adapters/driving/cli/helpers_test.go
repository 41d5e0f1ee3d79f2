package cli

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	storemem "github.com/weaveai/weave-cli/internal/adapters/driven/storage/memory"
	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driving"
)

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	prevIngest := ingestService
	prevQuery := queryService
	prevEnrichment := enrichmentService
	prevDocument := documentService
	prevFeedback := feedbackService
	prevConfig := configStore

	ingestService = &mockIngestService{}
	queryService = &mockQueryService{answer: testAnswer()}
	enrichmentService = &mockEnrichmentService{}
	documentService = &mockDocumentService{}
	feedbackService = &mockFeedbackService{}
	configStore = storemem.NewConfigStore()

	return func() {
		ingestService = prevIngest
		queryService = prevQuery
		enrichmentService = prevEnrichment
		documentService = prevDocument
		feedbackService = prevFeedback
		configStore = prevConfig
	}
}

// clearTestServices nils out all services so "not configured" paths run.
func clearTestServices() func() {
	cleanup := setupTestServices()
	ingestService = nil
	queryService = nil
	enrichmentService = nil
	documentService = nil
	feedbackService = nil
	configStore = nil
	return cleanup
}

// resetFlagChanged clears the Changed marker on every flag in the command
// tree so required-flag checks see only the flags passed in this invocation;
// the commands are package globals and otherwise carry state across tests.
func resetFlagChanged(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, sub := range cmd.Commands() {
		resetFlagChanged(sub)
	}
}

// execute runs the root command with args and captures combined output.
func execute(args ...string) (string, error) {
	resetFlagChanged(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func testAnswer() *domain.Answer {
	return &domain.Answer{
		Text:       "Deploys are blue-green.",
		Confidence: 0.8,
		Sources: []domain.QueryResult{
			{ChunkID: "doc-a_0", DocumentID: "doc-a", Filename: "deploy.md", Content: "Deploys use blue-green rollouts.", Similarity: 0.9},
		},
	}
}

// mockIngestService is safe for concurrent use; the watch debouncer
// calls it from timer goroutines.
type mockIngestService struct {
	mu       sync.Mutex
	ingested []string
	err      error
}

func (m *mockIngestService) Ingest(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	m.ingested = append(m.ingested, raw.Filename)
	m.mu.Unlock()
	return &domain.Document{ID: "doc-" + raw.Filename, Filename: raw.Filename}, nil
}

func (m *mockIngestService) IngestText(_ context.Context, filename, _ string, _ domain.SourceType) (*domain.Document, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.mu.Lock()
	m.ingested = append(m.ingested, filename)
	m.mu.Unlock()
	return &domain.Document{ID: "doc-" + filename, Filename: filename}, 1, nil
}

func (m *mockIngestService) ingestedFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ingested...)
}

type mockQueryService struct {
	answer   *domain.Answer
	queryErr error
	results  []domain.QueryResult
	lastQ    string
	lastK    int
}

func (m *mockQueryService) Query(_ context.Context, question string, k int) (*domain.Answer, error) {
	m.lastQ = question
	m.lastK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.answer, nil
}

func (m *mockQueryService) Retrieve(_ context.Context, question string, k int) ([]domain.QueryResult, error) {
	m.lastQ = question
	m.lastK = k
	return m.results, nil
}

type mockEnrichmentService struct {
	outcome   *domain.EnrichmentOutcome
	err       error
	records   []domain.EnrichmentRecord
	lastQuery string
	lastPrior *domain.Answer
}

func (m *mockEnrichmentService) Enrich(_ context.Context, query string, prior *domain.Answer) (*domain.EnrichmentOutcome, error) {
	m.lastQuery = query
	m.lastPrior = prior
	if m.err != nil {
		return nil, m.err
	}
	if m.outcome != nil {
		return m.outcome, nil
	}
	return &domain.EnrichmentOutcome{
		Record: &domain.EnrichmentRecord{
			ID:                  "rec-1",
			TriggerQuery:        query,
			GeneratedDocumentID: "doc-gen",
			GeneratedAt:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		ChunksAdded: 3,
	}, nil
}

func (m *mockEnrichmentService) History(context.Context) ([]domain.EnrichmentRecord, error) {
	return m.records, m.err
}

type mockDocumentService struct {
	docs    []driving.DocumentDetails
	content string
	err     error
	deleted []string
}

func (m *mockDocumentService) List(context.Context) ([]driving.DocumentDetails, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{
		ID:          id,
		Filename:    "guide.md",
		ContentHash: "abc123",
		SourceType:  domain.SourceOriginal,
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (m *mockDocumentService) GetContent(context.Context, string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockFeedbackService struct {
	entries []domain.Feedback
	err     error
}

func (m *mockFeedbackService) Submit(_ context.Context, query, answer string, rating int, comment string) (*domain.Feedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	entry := domain.Feedback{
		ID:      "fb-1",
		Query:   query,
		Answer:  answer,
		Rating:  rating,
		Comment: comment,
	}
	m.entries = append(m.entries, entry)
	return &entry, nil
}

func (m *mockFeedbackService) List(context.Context) ([]domain.Feedback, error) {
	return m.entries, m.err
}
