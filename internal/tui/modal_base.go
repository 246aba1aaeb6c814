package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderModalFrame wraps body with a title and status bar and centers it.
func renderModalFrame(title, body string, status []string, modalWidth, width, height int, accent lipgloss.Color) string {
	contentWidth := modalWidth - 4 // Modal borders

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(accent).
		Bold(true).
		Render(title)

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(body)

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, renderModalStatusBar(status))

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

// renderModalStatusBar renders the key hints under a modal.
func renderModalStatusBar(items []string) string {
	return lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(strings.Join(items, " | "))
}
