package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

// enrichForce skips the pre-check that the prior answer actually
// reported a gap.
var enrichForce bool

var enrichCmd = &cobra.Command{
	Use:   "enrich [query]",
	Short: "Generate content to close a knowledge gap",
	Long: `Runs the query first and, when the answer reports missing information,
generates a knowledge base article on the gap and indexes it as a new
auto-enriched document. Enriching the same gap twice is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

var enrichHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past enrichments",
	Args:  cobra.NoArgs,
	RunE:  runEnrichHistory,
}

func init() {
	enrichCmd.Flags().BoolVarP(&enrichForce, "force", "f", false, "enrich even when the current answer reports no gap")
	enrichCmd.AddCommand(enrichHistoryCmd)
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	query := args[0]

	if enrichmentService == nil {
		return errors.New("enrichment service not configured")
	}

	ctx := context.Background()

	// Establish the gap first: a query whose answer is complete does
	// not need enrichment. --force hands the decision to the service
	// without a prior answer.
	var prior *domain.Answer
	if !enrichForce {
		if queryService == nil {
			return errors.New("query service not configured")
		}
		answer, err := queryService.Query(ctx, query, 0)
		if err != nil {
			var synthErr *domain.SynthesisError
			if !errors.As(err, &synthErr) {
				return fmt.Errorf("query failed: %w", err)
			}
			// The knowledge base could not answer at all; treat that
			// as a gap and proceed without a prior answer.
		} else {
			prior = answer
		}
	}

	outcome, err := enrichmentService.Enrich(ctx, query, prior)
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	if outcome.NoOp {
		if outcome.Record != nil {
			cmd.Printf("Already enriched for this gap (%s, %s).\n",
				outcome.Record.TopicSummary, outcome.Record.GeneratedAt.Format("2006-01-02"))
		} else {
			cmd.Println("Nothing to enrich: the knowledge base already covers this.")
		}
		return nil
	}

	cmd.Printf("Enriched: added document %s (%d chunks).\n",
		outcome.Record.GeneratedDocumentID, outcome.ChunksAdded)
	return nil
}

func runEnrichHistory(cmd *cobra.Command, _ []string) error {
	if enrichmentService == nil {
		return errors.New("enrichment service not configured")
	}

	records, err := enrichmentService.History(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load enrichment history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No enrichments recorded.")
		return nil
	}

	cmd.Println("Enrichment history:")
	cmd.Println()
	for i := range records {
		cmd.Printf("  %s  %s\n", records[i].GeneratedAt.Format("2006-01-02 15:04"), records[i].TriggerQuery)
		cmd.Printf("      Document: %s\n", records[i].GeneratedDocumentID)
	}
	cmd.Println()
	cmd.Printf("Total: %d enrichments\n", len(records))
	return nil
}
