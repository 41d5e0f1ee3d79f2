package driven

import (
	"context"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// FeedbackStore records answer ratings. The core writes and lists
// feedback but attaches no meaning to it.
type FeedbackStore interface {
	// Save stores a feedback entry.
	Save(ctx context.Context, feedback domain.Feedback) error

	// List returns all feedback entries, newest first.
	List(ctx context.Context) ([]domain.Feedback, error)
}
