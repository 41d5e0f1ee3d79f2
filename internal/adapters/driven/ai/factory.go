// Package ai provides factory functions for creating AI service adapters
// from persisted configuration.
package ai

import (
	"fmt"
	"os"
	"time"

	ollamaembed "github.com/weaveai/weave-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/weaveai/weave-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/weaveai/weave-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/weaveai/weave-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/weaveai/weave-cli/internal/adapters/driven/llm/openai"
	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Provider names accepted in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// NewEmbeddingService builds the configured embedding adapter.
// The provider defaults to openai; the API key falls back to the
// OPENAI_API_KEY environment variable when not stored in config.
// Returns domain.ErrEmbeddingUnavailable when the provider cannot be built.
func NewEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString(driven.ConfigEmbeddingProvider)
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.GetString(driven.ConfigOllamaBaseURL),
			Model:   cfg.GetString(driven.ConfigEmbeddingModel),
		}), nil

	case ProviderOpenAI:
		apiKey := openAIKey(cfg)
		if apiKey == "" {
			return nil, fmt.Errorf("%w: no API key configured, set %s or the OPENAI_API_KEY environment variable",
				domain.ErrEmbeddingUnavailable, driven.ConfigOpenAIAPIKey)
		}
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString(driven.ConfigOpenAIBaseURL),
			Model:   cfg.GetString(driven.ConfigEmbeddingModel),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	case ProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not provide embeddings, use openai or ollama",
			domain.ErrEmbeddingUnavailable)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q",
			domain.ErrEmbeddingUnavailable, provider)
	}
}

// NewLLMService builds the configured generation adapter.
// The provider defaults to openai; API keys fall back to the standard
// provider environment variables.
// Returns domain.ErrLLMUnavailable when the provider cannot be built.
func NewLLMService(cfg driven.ConfigStore) (driven.LLMService, error) {
	provider := cfg.GetString(driven.ConfigLLMProvider)
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.GetString(driven.ConfigOllamaBaseURL),
			Model:   cfg.GetString(driven.ConfigLLMModel),
		}), nil

	case ProviderOpenAI:
		apiKey := openAIKey(cfg)
		if apiKey == "" {
			return nil, fmt.Errorf("%w: no API key configured, set %s or the OPENAI_API_KEY environment variable",
				domain.ErrLLMUnavailable, driven.ConfigOpenAIAPIKey)
		}
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  apiKey,
			BaseURL: cfg.GetString(driven.ConfigOpenAIBaseURL),
			Model:   cfg.GetString(driven.ConfigLLMModel),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return svc, nil

	case ProviderAnthropic:
		apiKey := cfg.GetString(driven.ConfigAnthropicAPIKey)
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%w: no API key configured, set %s or the ANTHROPIC_API_KEY environment variable",
				domain.ErrLLMUnavailable, driven.ConfigAnthropicAPIKey)
		}
		svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey: apiKey,
			Model:  cfg.GetString(driven.ConfigLLMModel),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q",
			domain.ErrLLMUnavailable, provider)
	}
}

// openAIKey resolves the OpenAI API key from config, then environment.
func openAIKey(cfg driven.ConfigStore) string {
	if key := cfg.GetString(driven.ConfigOpenAIAPIKey); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
