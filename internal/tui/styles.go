package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	detailsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)
)
