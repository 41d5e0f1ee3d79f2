package driving

import (
	"context"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// QueryService answers questions against the knowledge base.
type QueryService interface {
	// Query retrieves evidence for the question and synthesises a
	// grounded answer with completeness analysis. k <= 0 uses the
	// configured default.
	Query(ctx context.Context, question string, k int) (*domain.Answer, error)

	// Retrieve returns the top-k evidence chunks without synthesis.
	Retrieve(ctx context.Context, question string, k int) ([]domain.QueryResult, error)
}
