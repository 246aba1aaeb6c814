package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const helpIntro = `The overview on the left refreshes while it is shown.
Hide it with o to pause polling. Pages on the right
switch with tab.`

// HelpModal lists every key binding.
type HelpModal struct {
	keys KeyMap
	help help.Model
}

func NewHelpModal(keys KeyMap) *HelpModal {
	h := help.New()
	h.ShowAll = true
	return &HelpModal{keys: keys, help: h}
}

func (h *HelpModal) ID() string { return "help" }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, h.keys.Help, h.keys.Escape, h.keys.Quit) {
			return true, nil
		}
	}
	return false, nil
}

func (h *HelpModal) View(width, height int) string {
	modalWidth := min(max(width-8, 40), 100)
	h.help.Width = modalWidth - 6
	body := lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render(helpIntro),
		"",
		h.help.View(h.keys),
	)
	return renderModalFrame("Help", body, []string{"?/h: Toggle Help", "ESC: Close"}, modalWidth, width, height, ColorBlue)
}
