package tray

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the tray.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Link     lipgloss.Style
	Focused  lipgloss.Style
	Card     lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
	Modal    lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Link: lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color("39")),
		Focused: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")),
		Card: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
