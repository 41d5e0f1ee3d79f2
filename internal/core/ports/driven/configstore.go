package driven

// ConfigStore provides persistent key-value configuration.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetFloat retrieves a float configuration value.
	GetFloat(key string) float64

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// Set stores a configuration value and persists immediately.
	Set(key string, value any) error

	// Save persists the current configuration to disk.
	Save() error
}

// Well-known configuration keys.
const (
	// ConfigEmbeddingProvider selects the embedding adapter ("openai" or "ollama").
	ConfigEmbeddingProvider = "embedding.provider"

	// ConfigEmbeddingModel overrides the embedding model name.
	ConfigEmbeddingModel = "embedding.model"

	// ConfigLLMProvider selects the generation adapter
	// ("openai", "ollama" or "anthropic").
	ConfigLLMProvider = "llm.provider"

	// ConfigLLMModel overrides the generation model name.
	ConfigLLMModel = "llm.model"

	// ConfigOpenAIAPIKey is the OpenAI-compatible API key.
	ConfigOpenAIAPIKey = "openai.api_key"

	// ConfigOpenAIBaseURL overrides the API base URL (Azure etc.).
	ConfigOpenAIBaseURL = "openai.base_url"

	// ConfigAnthropicAPIKey is the Anthropic API key.
	ConfigAnthropicAPIKey = "anthropic.api_key"

	// ConfigOllamaBaseURL overrides the local Ollama endpoint.
	ConfigOllamaBaseURL = "ollama.base_url"

	// ConfigChunkSize is the maximum chunk size in characters.
	ConfigChunkSize = "chunk.size"

	// ConfigChunkOverlap is the overlap between adjacent chunks.
	ConfigChunkOverlap = "chunk.overlap"

	// ConfigTopK is the default number of retrieval results.
	ConfigTopK = "retrieval.top_k"

	// ConfigDedupThreshold is the cosine similarity above which a gap is
	// treated as already enriched.
	ConfigDedupThreshold = "enrichment.dedup_threshold"
)
