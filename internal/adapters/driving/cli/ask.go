package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/weaveai/weave-cli/internal/adapters/driving/tui"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Interactive question session",
	Long: `Launches an interactive terminal session for asking questions against
the knowledge base.

Controls:
  Enter    - Ask
  ↑/↓      - Scroll the answer
  Esc      - Quit`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	app := tui.NewApp(queryService).WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ask session failed: %w", err)
	}
	return nil
}
