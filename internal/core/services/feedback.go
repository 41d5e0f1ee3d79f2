package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
	"github.com/weaveai/weave-cli/internal/core/ports/driving"
)

// Ensure FeedbackService implements the interface.
var _ driving.FeedbackService = (*FeedbackService)(nil)

// FeedbackService records answer quality ratings. It stores them
// verbatim; nothing downstream interprets the values.
type FeedbackService struct {
	store driven.FeedbackStore
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(store driven.FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store}
}

// Submit stores a rating for an answer.
func (s *FeedbackService) Submit(
	ctx context.Context, query, answer string, rating int, comment string,
) (*domain.Feedback, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if !domain.ValidRating(rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5, got %d",
			domain.ErrInvalidInput, rating)
	}

	feedback := domain.Feedback{
		ID:        uuid.New().String(),
		Query:     query,
		Answer:    answer,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	if err := s.store.Save(ctx, feedback); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}
	return &feedback, nil
}

// List returns all feedback, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	return s.store.List(ctx)
}
