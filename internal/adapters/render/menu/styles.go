package menu

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	divider  lipgloss.Style
	header   lipgloss.Style
	item     lipgloss.Style
	number   lipgloss.Style
	account  lipgloss.Style
	active   lipgloss.Style
	inactive lipgloss.Style
	warning  lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		divider:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		item:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		number:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		account:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		active:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		inactive: lipgloss.NewStyle().Faint(true),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
