package ai

import (
	"context"
	"fmt"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

// ValidateEmbeddingService builds the configured embedding adapter and
// pings it, so misconfiguration surfaces before the first ingest rather
// than mid-pipeline.
func ValidateEmbeddingService(ctx context.Context, cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	svc, err := NewEmbeddingService(cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable: %w",
			domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// ValidateLLMService builds the configured generation adapter and pings it.
func ValidateLLMService(ctx context.Context, cfg driven.ConfigStore) (driven.LLMService, error) {
	svc, err := NewLLMService(cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable: %w",
			domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}
