package menu

import "github.com/charmbracelet/lipgloss"

// Styles for terminal rendering. Kept as package vars so the prompter and
// screens share one look.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89b4fa")).
			Bold(true)

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6adc8"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6e3a1"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8"))
)
