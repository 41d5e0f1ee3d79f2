package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the knowledge base",
	Long: `Retrieves the most relevant evidence for the question and synthesises a
grounded answer with a confidence score. When the knowledge base cannot fully
answer, the output lists the missing information and suggests enrichment
topics (see "weave enrich").`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "n", 0, "number of evidence chunks to retrieve (0 = configured default)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := args[0]

	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := context.Background()

	answer, err := queryService.Query(ctx, question, queryTopK)
	if err != nil {
		// Synthesis failures degrade to retrieval-only output so the
		// user still sees the evidence that was found.
		var synthErr *domain.SynthesisError
		if errors.As(err, &synthErr) {
			return outputEvidenceOnly(ctx, cmd, question, synthErr)
		}
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputAnswerJSON(cmd, answer)
	}

	outputAnswer(cmd, answer)
	return nil
}

// answerJSON is the stable JSON shape of an answer.
type answerJSON struct {
	Answer      string       `json:"answer"`
	Confidence  float64      `json:"confidence"`
	MissingInfo []string     `json:"missing_info"`
	Suggestions []string     `json:"enrichment_suggestions"`
	Sources     []sourceJSON `json:"sources"`
}

type sourceJSON struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Similarity float64 `json:"similarity"`
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	out := answerJSON{
		Answer:      answer.Text,
		Confidence:  answer.Confidence,
		MissingInfo: answer.MissingInfo,
		Suggestions: answer.Suggestions,
		Sources:     make([]sourceJSON, 0, len(answer.Sources)),
	}
	for _, src := range answer.Sources {
		out.Sources = append(out.Sources, sourceJSON{
			DocumentID: src.DocumentID,
			Filename:   src.Filename,
			Similarity: src.Similarity,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("Confidence: %.0f%%\n", answer.Confidence*100)

	if answer.HasGaps() {
		cmd.Println()
		cmd.Println("Missing information:")
		for _, item := range answer.MissingInfo {
			cmd.Printf("  - %s\n", item)
		}
		if len(answer.Suggestions) > 0 {
			cmd.Println("Suggested enrichment topics:")
			for _, item := range answer.Suggestions {
				cmd.Printf("  - %s\n", item)
			}
		}
	}

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, src.Filename, src.Similarity)
		}
	}
}

// outputEvidenceOnly prints retrieved evidence when synthesis failed.
func outputEvidenceOnly(ctx context.Context, cmd *cobra.Command, question string, synthErr *domain.SynthesisError) error {
	cmd.Printf("Unable to synthesise an answer (%s).\n", synthErr.Kind)

	results, err := queryService.Retrieve(ctx, question, queryTopK)
	if err != nil || len(results) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println("Closest matches in the knowledge base:")
	for i, res := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, res.Filename, res.Similarity)
		cmd.Printf("      %s\n", snippet(res.Content, 120))
	}
	return nil
}

// snippet truncates content to at most n runes for one-line display.
func snippet(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}
