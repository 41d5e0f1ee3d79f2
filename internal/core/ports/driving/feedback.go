package driving

import (
	"context"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// FeedbackService records answer quality ratings.
type FeedbackService interface {
	// Submit stores a rating for an answer.
	Submit(ctx context.Context, query, answer string, rating int, comment string) (*domain.Feedback, error)

	// List returns all feedback, newest first.
	List(ctx context.Context) ([]domain.Feedback, error)
}
