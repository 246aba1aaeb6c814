package tui

import tea "github.com/charmbracelet/bubbletea"

// Page represents a top-level screen shown next to the overview.
type Page interface {
	ID() string
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// Leaver is optionally implemented by pages that hold subscriptions while
// they are the active page.
type Leaver interface {
	Leave()
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}
