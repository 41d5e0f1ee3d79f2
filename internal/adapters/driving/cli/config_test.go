package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

func TestConfigCmd_Use(t *testing.T) {
	assert.Equal(t, "config", configCmd.Use)
	assert.Equal(t, "get [key]", configGetCmd.Use)
	assert.Equal(t, "set [key] [value]", configSetCmd.Use)
}

func TestConfigShow_NotConfigured(t *testing.T) {
	cleanup := clearTestServices()
	defer cleanup()

	_, err := execute("config", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config store not configured")
}

func TestConfigShow_ListsKnownKeys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, configStore.Set(driven.ConfigLLMProvider, "ollama"))

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "llm.provider")
	assert.Contains(t, out, "ollama")
	assert.Contains(t, out, "(not set)")
}

func TestConfigShow_MasksAPIKeys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, configStore.Set(driven.ConfigOpenAIAPIKey, "sk-verysecretapikey123"))

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.NotContains(t, out, "sk-verysecretapikey123")
	assert.Contains(t, out, "sk-v...y123")
}

func TestConfigGetSet_RoundTrip(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("config", "set", "retrieval.top_k", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Set retrieval.top_k.")
	assert.Equal(t, 7, configStore.GetInt(driven.ConfigTopK))

	out, err = execute("config", "get", "retrieval.top_k")
	require.NoError(t, err)
	assert.Contains(t, out, "7")
}

func TestConfigGet_UnsetKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("config", "get", "embedding.model")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestCoerceConfigValue(t *testing.T) {
	assert.Equal(t, int64(7), coerceConfigValue("7"))
	assert.Equal(t, 0.92, coerceConfigValue("0.92"))
	assert.Equal(t, true, coerceConfigValue("true"))
	assert.Equal(t, "ollama", coerceConfigValue("ollama"))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
