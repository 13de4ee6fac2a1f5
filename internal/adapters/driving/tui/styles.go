package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the TUI.
type Styles struct {
	Title    lipgloss.Style
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Faint    lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
}

// DefaultStyles returns the default colour theme.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")),
		Normal: lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")),
		Faint: lipgloss.NewStyle().
			Faint(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Status: lipgloss.NewStyle().
			Faint(true).
			Italic(true),
	}
}
