package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	warningStyle lipgloss.Style
	dimStyle     lipgloss.Style
	keyStyle     lipgloss.Style
)

func init() {
	initStyles()
}

func initStyles() {
	if !IsTerminal() {
		successStyle = lipgloss.NewStyle()
		errorStyle = lipgloss.NewStyle()
		warningStyle = lipgloss.NewStyle()
		dimStyle = lipgloss.NewStyle()
		keyStyle = lipgloss.NewStyle()
		return
	}

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
}

// Success renders success text
func Success(text string) string {
	return successStyle.Render(text)
}

// Error renders error text
func Error(text string) string {
	return errorStyle.Render(text)
}

// Warning renders warning text
func Warning(text string) string {
	return warningStyle.Render(text)
}

// Dim renders dim text
func Dim(text string) string {
	return dimStyle.Render(text)
}

// Key renders a cache key
func Key(text string) string {
	return keyStyle.Render(text)
}
