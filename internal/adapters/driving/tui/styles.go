package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour palette for the ask view.
type Theme struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title      lipgloss.Style
	Prompt     lipgloss.Style
	Answer     lipgloss.Style
	Muted      lipgloss.Style
	Confidence lipgloss.Style
	Gap        lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
	Pane       lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// NewStyles builds styles from a theme.
func NewStyles(t *Theme) *Styles {
	return &Styles{
		Title:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Prompt:     lipgloss.NewStyle().Foreground(t.Primary),
		Answer:     lipgloss.NewStyle().Foreground(t.Foreground),
		Muted:      lipgloss.NewStyle().Foreground(t.Muted),
		Confidence: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Gap:        lipgloss.NewStyle().Foreground(t.Warning),
		Error:      lipgloss.NewStyle().Foreground(t.Error),
		Help:       lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}
