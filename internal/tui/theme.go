package tui

import (
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Header      lipgloss.Style
	Cell        lipgloss.Style
	Selected    lipgloss.Style
	Button      lipgloss.Style
	ButtonOff   lipgloss.Style
	Border      lipgloss.Color
	StatusStyle map[payments.Status]lipgloss.Style
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Error: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ef4444")),
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a78bfa")).
		Padding(0, 1),
	Cell: lipgloss.NewStyle().
		Padding(0, 1),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Button: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#404040")).
		Padding(0, 1),
	ButtonOff: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#525252")).
		Padding(0, 1),
	Border: lipgloss.Color("#404040"),
	StatusStyle: map[payments.Status]lipgloss.Style{
		payments.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
		payments.StatusPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		payments.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		payments.StatusRefunded:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")),
	},
}

// Status renders a payment status in its color.
func (t Theme) Status(s payments.Status) string {
	if style, ok := t.StatusStyle[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}
