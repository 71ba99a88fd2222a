// Package tui provides the Bubble Tea lesson menu and typing interface.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Reverse(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Reverse(true)
	lineEndStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	promptStyle    = lipgloss.NewStyle().Italic(true)
	selectedStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	infoStyle      = lipgloss.NewStyle().Italic(true)
	alertStyle     = lipgloss.NewStyle().Bold(true)
	errorStyle     = lipgloss.NewStyle().Bold(true).Italic(true)
)
