package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed defaults.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names fall back to a built-in default or return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptSynthesis is the system prompt instructing grounded answering
	// with completeness analysis. No format placeholders.
	PromptSynthesis = "synthesis"

	// PromptEnrichment generates knowledge-base content for a gap.
	// The template expects a %s placeholder for the trigger query.
	PromptEnrichment = "enrichment"
)
