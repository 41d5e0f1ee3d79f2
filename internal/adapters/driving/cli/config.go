package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weaveai/weave-cli/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration: provider selection, API keys, chunking
parameters, retrieval depth and enrichment thresholds.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

Known keys:
  embedding.provider           openai | ollama
  embedding.model              embedding model override
  llm.provider                 openai | ollama | anthropic
  llm.model                    generation model override
  openai.api_key               OpenAI API key
  openai.base_url              OpenAI-compatible base URL
  anthropic.api_key            Anthropic API key
  ollama.base_url              local Ollama endpoint
  chunk.size                   maximum chunk size in characters
  chunk.overlap                overlap between adjacent chunks
  retrieval.top_k              default number of retrieval results
  enrichment.dedup_threshold   topic similarity treated as duplicate`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// knownConfigKeys drives "config show" ordering and value coercion on set.
var knownConfigKeys = []string{
	driven.ConfigEmbeddingProvider,
	driven.ConfigEmbeddingModel,
	driven.ConfigLLMProvider,
	driven.ConfigLLMModel,
	driven.ConfigOpenAIAPIKey,
	driven.ConfigOpenAIBaseURL,
	driven.ConfigAnthropicAPIKey,
	driven.ConfigOllamaBaseURL,
	driven.ConfigChunkSize,
	driven.ConfigChunkOverlap,
	driven.ConfigTopK,
	driven.ConfigDedupThreshold,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := append([]string(nil), knownConfigKeys...)
	sort.Strings(keys)

	cmd.Println("Configuration:")
	cmd.Println()
	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-28s (not set)\n", key)
			continue
		}
		cmd.Printf("  %-28s %v\n", key, displayConfigValue(key, val))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, coerceConfigValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

// coerceConfigValue stores numerals as numbers so GetInt/GetFloat see
// the expected types.
func coerceConfigValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// displayConfigValue masks secrets in show output.
func displayConfigValue(key string, val any) string {
	if strings.HasSuffix(key, ".api_key") {
		return maskAPIKey(fmt.Sprintf("%v", val))
	}
	return fmt.Sprintf("%v", val)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
