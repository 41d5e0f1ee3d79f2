package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
	"github.com/weaveai/weave-cli/internal/core/ports/driving"
	"github.com/weaveai/weave-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages indexed documents.
type DocumentService struct {
	store   driven.DocumentStore
	indexer *IndexService
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.DocumentStore, indexer *IndexService) *DocumentService {
	return &DocumentService{
		store:   store,
		indexer: indexer,
	}
}

// List returns metadata for all documents with their chunk counts.
func (s *DocumentService) List(ctx context.Context) ([]driving.DocumentDetails, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	details := make([]driving.DocumentDetails, len(docs))
	for i, doc := range docs {
		chunks, err := s.store.GetChunks(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("count chunks for %s: %w", doc.ID, err)
		}

		details[i] = driving.DocumentDetails{
			ID:          doc.ID,
			Filename:    doc.Filename,
			SourceType:  doc.SourceType,
			ChunkCount:  len(chunks),
			Quarantined: doc.Quarantined,
			CreatedAt:   doc.CreatedAt,
		}
	}

	return details, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}
	return s.store.GetDocument(ctx, documentID)
}

// GetContent returns the concatenated content of all chunks in position
// order.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	if strings.TrimSpace(documentID) == "" {
		return "", fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}

	// Existence check so a missing document reports ErrNotFound rather
	// than an empty string.
	if _, err := s.store.GetDocument(ctx, documentID); err != nil {
		return "", err
	}

	chunks, err := s.store.GetChunks(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("get chunks: %w", err)
	}

	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = chunk.Content
	}
	return strings.Join(parts, "\n"), nil
}

// Delete removes a document and its chunks from the store and the
// vector index.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}

	if err := s.indexer.Delete(ctx, documentID); err != nil {
		return err
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}
