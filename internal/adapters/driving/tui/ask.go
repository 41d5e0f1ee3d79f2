// Package tui provides the interactive ask view: a single-screen
// Bubbletea model that reads a question, queries the knowledge base and
// renders the grounded answer with its completeness analysis.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driving"
)

// answerReceived carries the query result back into the update loop.
type answerReceived struct {
	answer *domain.Answer
	err    error
}

// App is the ask view, implementing tea.Model.
type App struct {
	query driving.QueryService
	ctx   context.Context

	styles   *Styles
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	width   int
	height  int
	waiting bool
	asked   string
	answer  *domain.Answer
	err     error
}

// NewApp creates the ask view backed by the given query service.
func NewApp(query driving.QueryService) *App {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		query:    query,
		ctx:      context.Background(),
		styles:   DefaultStyles(),
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(80, 16),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used for query calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init starts the cursor blink.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 12
		a.viewport.Width = msg.Width - 4
		a.viewport.Height = msg.Height - 7
		if a.answer != nil {
			a.viewport.SetContent(a.renderAnswer())
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			return a, a.submit()
		}

	case answerReceived:
		a.waiting = false
		a.err = msg.err
		a.answer = msg.answer
		if a.answer != nil {
			a.viewport.SetContent(a.renderAnswer())
			a.viewport.GotoTop()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// submit starts a query for the current input, if any.
func (a *App) submit() tea.Cmd {
	question := strings.TrimSpace(a.input.Value())
	if question == "" || a.waiting || a.query == nil {
		return nil
	}

	a.waiting = true
	a.asked = question
	a.answer = nil
	a.err = nil

	ask := func() tea.Msg {
		answer, err := a.query.Query(a.ctx, question, 0)
		return answerReceived{answer: answer, err: err}
	}
	return tea.Batch(a.spinner.Tick, ask)
}

// View renders the full screen.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("weave ask"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Prompt.Render("? "))
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	switch {
	case a.waiting:
		b.WriteString(a.spinner.View())
		b.WriteString(a.styles.Muted.Render(" thinking..."))
	case a.err != nil:
		b.WriteString(a.styles.Error.Render(errorLine(a.err)))
	case a.answer != nil:
		b.WriteString(a.styles.Pane.Render(a.viewport.View()))
	default:
		b.WriteString(a.styles.Muted.Render("Type a question and press enter."))
	}

	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("enter ask · ↑/↓ scroll · esc quit"))
	return b.String()
}

// renderAnswer formats the answer, gaps and sources for the viewport.
func (a *App) renderAnswer() string {
	var b strings.Builder

	b.WriteString(a.styles.Answer.Render(a.answer.Text))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Confidence.Render(fmt.Sprintf("Confidence: %.0f%%", a.answer.Confidence*100)))

	if a.answer.HasGaps() {
		b.WriteString("\n\n")
		b.WriteString(a.styles.Gap.Render("Missing information:"))
		for _, item := range a.answer.MissingInfo {
			b.WriteString("\n")
			b.WriteString(a.styles.Gap.Render("  - " + item))
		}
		if len(a.answer.Suggestions) > 0 {
			b.WriteString("\n")
			b.WriteString(a.styles.Muted.Render(fmt.Sprintf("Run: weave enrich %q", a.asked)))
		}
	}

	if len(a.answer.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(a.styles.Muted.Render("Sources:"))
		for i, src := range a.answer.Sources {
			b.WriteString("\n")
			b.WriteString(a.styles.Muted.Render(fmt.Sprintf("  [%d] %s (%.2f)", i+1, src.Filename, src.Similarity)))
		}
	}

	return b.String()
}

// errorLine gives typed synthesis failures a friendlier one-liner.
func errorLine(err error) string {
	var synthErr *domain.SynthesisError
	if errors.As(err, &synthErr) {
		return fmt.Sprintf("Unable to answer (%s). Try again.", synthErr.Kind)
	}
	return "Error: " + err.Error()
}
