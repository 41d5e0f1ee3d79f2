package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	feedbackRating  int
	feedbackComment string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and review answer ratings",
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add [query] [answer]",
	Short: "Rate an answer",
	Long: `Records a 1-5 star rating for an answer the knowledge base gave.
The rating is stored alongside the query and answer text for later review.`,
	Args: cobra.ExactArgs(2),
	RunE: runFeedbackAdd,
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded feedback",
	Args:  cobra.NoArgs,
	RunE:  runFeedbackList,
}

func init() {
	feedbackAddCmd.Flags().IntVarP(&feedbackRating, "rating", "r", 0, "star rating, 1 (worst) to 5 (best)")
	feedbackAddCmd.Flags().StringVarP(&feedbackComment, "comment", "c", "", "optional free-form comment")
	_ = feedbackAddCmd.MarkFlagRequired("rating")

	feedbackCmd.AddCommand(feedbackAddCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedbackAdd(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	entry, err := feedbackService.Submit(context.Background(), args[0], args[1], feedbackRating, feedbackComment)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	cmd.Printf("Recorded feedback %s (%d/5).\n", entry.ID, entry.Rating)
	return nil
}

func runFeedbackList(cmd *cobra.Command, _ []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	entries, err := feedbackService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No feedback recorded.")
		return nil
	}

	cmd.Println("Feedback:")
	cmd.Println()
	for i := range entries {
		cmd.Printf("  %s  %d/5  %s\n", entries[i].CreatedAt.Format("2006-01-02 15:04"), entries[i].Rating, entries[i].Query)
		if entries[i].Comment != "" {
			cmd.Printf("      %s\n", entries[i].Comment)
		}
	}
	cmd.Println()
	cmd.Printf("Total: %d entries\n", len(entries))
	return nil
}
