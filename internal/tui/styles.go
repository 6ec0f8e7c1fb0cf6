package tui

import "github.com/charmbracelet/lipgloss"

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Header styles
	Title lipgloss.Style

	Divider lipgloss.Style

	// Indicator styles
	Indicator lipgloss.Style
	Spinner   lipgloss.Style
	Hint      lipgloss.Style

	// Footer styles
	Footer lipgloss.Style
	Error  lipgloss.Style

	// Status colors
	StatusIdle       lipgloss.Style
	StatusPulling    lipgloss.Style
	StatusRefreshing lipgloss.Style
	StatusDisabled   lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Indicator: lipgloss.NewStyle().
		Bold(true),

	Spinner: lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")),

	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),

	StatusIdle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	StatusPulling: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220")),

	StatusRefreshing: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	StatusDisabled: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),
}
