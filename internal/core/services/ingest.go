package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
	"github.com/weaveai/weave-cli/internal/core/ports/driving"
	"github.com/weaveai/weave-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: text extraction, chunking,
// embedding and index upsert.
type IngestService struct {
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	store    driven.DocumentStore
	indexer  *IndexService
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.DocumentStore,
	indexer *IndexService,
) *IngestService {
	return &IngestService{
		registry: registry,
		pipeline: pipeline,
		embedder: embedder,
		store:    store,
		indexer:  indexer,
	}
}

// Ingest processes a raw document end to end. Re-ingesting content with
// an identical hash returns the existing document without writing.
func (s *IngestService) Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil || len(raw.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidInput)
	}

	logger.Section("Ingest")
	logger.Debug("File: %s (%s, %d bytes)", raw.Filename, raw.MIMEType, len(raw.Content))

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.Filename, err)
	}

	doc := result.Document
	doc.ContentHash = contentHash(doc.Content)
	doc.SourceType = domain.SourceOriginal

	existing, err := s.store.GetDocumentByHash(ctx, doc.ContentHash)
	if err == nil {
		logger.Info("Identical content already indexed as %s, skipping", existing.ID)
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("hash lookup: %w", err)
	}

	if _, err := s.indexDocument(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// IngestText ingests already-extracted plain text. Returns the stored
// document and the number of chunks it produced; a content-hash match
// returns the existing document with zero chunks added.
func (s *IngestService) IngestText(
	ctx context.Context, filename, text string, sourceType domain.SourceType,
) (*domain.Document, int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, 0, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}
	if !sourceType.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown source type %q", domain.ErrInvalidInput, sourceType)
	}

	hash := contentHash(text)
	existing, err := s.store.GetDocumentByHash(ctx, hash)
	if err == nil {
		logger.Info("Identical content already indexed as %s, skipping", existing.ID)
		return existing, 0, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, 0, fmt.Errorf("hash lookup: %w", err)
	}

	now := time.Now()
	doc := domain.Document{
		ID:          uuid.New().String(),
		Filename:    filename,
		ContentHash: hash,
		SourceType:  sourceType,
		Content:     text,
		Metadata:    map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	added, err := s.indexDocument(ctx, &doc)
	if err != nil {
		return nil, 0, err
	}
	return &doc, added, nil
}

// indexDocument chunks, embeds and commits a normalised document.
func (s *IngestService) indexDocument(ctx context.Context, doc *domain.Document) (int, error) {
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("chunk %s: %w", doc.ID, err)
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%s: %w", doc.Filename, domain.ErrNoChunks)
	}
	logger.Debug("Chunked into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", doc.ID, err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embed %s: got %d embeddings for %d chunks",
			doc.ID, len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	logger.Debug("Embedded with %s (%d dimensions)", s.embedder.ModelName(), s.embedder.Dimensions())

	if err := s.indexer.Upsert(ctx, doc, chunks); err != nil {
		return 0, err
	}

	logger.Info("Indexed %s: %d chunks", doc.Filename, len(chunks))
	return len(chunks), nil
}

// contentHash returns the hex-encoded SHA-256 of extracted text.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
