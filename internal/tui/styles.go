package tui

import "github.com/charmbracelet/lipgloss"

// Chrome colors.
var (
	ColorWhite  = lipgloss.Color("#FFFFFF")
	ColorGray   = lipgloss.Color("244")
	ColorBlue   = lipgloss.Color("39")
	ColorNavy   = lipgloss.Color("17")
	ColorGreen  = lipgloss.Color("#44FF44")
	ColorYellow = lipgloss.Color("#FFAA00")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("#FF4444")
)

// Overview stat colors.
var (
	ColorHP     = lipgloss.Color("#DD3434")
	ColorMoney  = lipgloss.Color("#FFD700")
	ColorHack   = lipgloss.Color("#ADFF2F")
	ColorCombat = lipgloss.Color("#FAFFDF")
	ColorCha    = lipgloss.Color("#A671D1")
	ColorInt    = lipgloss.Color("#6495ED")
)

var (
	blockHeaderStyle = lipgloss.NewStyle().Underline(true).Bold(true)
	blockTextStyle   = lipgloss.NewStyle().Foreground(ColorWhite)
	workHeaderStyle  = lipgloss.NewStyle().Foreground(ColorHack).Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(ColorGray)
	errorStyle       = lipgloss.NewStyle().Foreground(ColorRed)
)
