package render

import "github.com/charmbracelet/lipgloss"

var (
	Primary = lipgloss.Color("#101F38")
	Accent  = lipgloss.Color("#8BC34A")
	Muted   = lipgloss.Color("#6B7280")
	Danger  = lipgloss.Color("#e53935")
	Warning = lipgloss.Color("#FFC107")
)

// Styles groups the lipgloss styles used by the terminal views.
type Styles struct {
	Card     lipgloss.Style
	Title    lipgloss.Style
	Meta     lipgloss.Style
	Badge    lipgloss.Style
	Up       lipgloss.Style
	Down     lipgloss.Style
	Footer   lipgloss.Style
	Warning  lipgloss.Style
	Heading  lipgloss.Style
	Selected lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(0, 1).
			Width(72),
		Title:    lipgloss.NewStyle().Bold(true),
		Meta:     lipgloss.NewStyle().Foreground(Muted),
		Badge:    lipgloss.NewStyle().Foreground(Primary).Background(Accent).Padding(0, 1),
		Up:       lipgloss.NewStyle().Foreground(Accent).Bold(true),
		Down:     lipgloss.NewStyle().Foreground(Danger).Bold(true),
		Footer:   lipgloss.NewStyle().Foreground(Muted).MarginTop(1),
		Warning:  lipgloss.NewStyle().Foreground(Warning),
		Heading:  lipgloss.NewStyle().Bold(true).Underline(true).MarginBottom(1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(Accent),
	}
}
