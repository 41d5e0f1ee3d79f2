package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaveai/weave-cli/internal/adapters/driven/storage/memory"
	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

func TestNewEmbeddingService_DefaultsToOpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := memory.NewConfigStore()

	_, err := NewEmbeddingService(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestNewEmbeddingService_OpenAIWithKey(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(driven.ConfigOpenAIAPIKey, "sk-test"))
	require.NoError(t, cfg.Set(driven.ConfigEmbeddingModel, "text-embedding-3-small"))

	svc, err := NewEmbeddingService(cfg)

	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
}

func TestNewEmbeddingService_KeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg := memory.NewConfigStore()

	svc, err := NewEmbeddingService(cfg)

	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewEmbeddingService_Ollama(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(driven.ConfigEmbeddingProvider, "ollama"))

	svc, err := NewEmbeddingService(cfg)

	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
}

func TestNewEmbeddingService_AnthropicRejected(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(driven.ConfigEmbeddingProvider, "anthropic"))

	_, err := NewEmbeddingService(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestNewEmbeddingService_UnknownProvider(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(driven.ConfigEmbeddingProvider, "mystery"))

	_, err := NewEmbeddingService(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "mystery")
}

func TestNewLLMService_DefaultsToOpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := memory.NewConfigStore()

	_, err := NewLLMService(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestNewLLMService_OpenAIWithKey(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(driven.ConfigOpenAIAPIKey, "sk-test"))
	require.NoError(t, cfg.Set(driven.ConfigLLMModel, "gpt-4o"))

	svc, err := NewLLMService(cfg)

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", svc.ModelName())
}

func TestNewLLMService_Ollama(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(driven.ConfigLLMProvider, "ollama"))

	svc, err := NewLLMService(cfg)

	require.NoError(t, err)
	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestNewLLMService_Anthropic(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(driven.ConfigLLMProvider, "anthropic"))
	require.NoError(t, cfg.Set(driven.ConfigAnthropicAPIKey, "sk-ant-test"))

	svc, err := NewLLMService(cfg)

	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet-latest", svc.ModelName())
}

func TestNewLLMService_AnthropicMissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(driven.ConfigLLMProvider, "anthropic"))

	_, err := NewLLMService(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
