package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModal asks a yes/no question and runs onConfirm on yes.
type ConfirmModal struct {
	id        string
	title     string
	question  string
	keys      KeyMap
	onConfirm func() tea.Cmd
}

// NewKillScriptsModal asks before killing every running script.
func NewKillScriptsModal(keys KeyMap, onConfirm func() tea.Cmd) *ConfirmModal {
	return &ConfirmModal{
		id:        "kill-scripts",
		title:     "Kill all running scripts",
		question:  "Are you sure you want to kill all running scripts?\nThis includes scripts on all servers, not just home.",
		keys:      keys,
		onConfirm: onConfirm,
	}
}

func (c *ConfirmModal) ID() string { return c.id }

func (c *ConfirmModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch {
	case key.Matches(km, c.keys.Confirm):
		return true, c.onConfirm()
	case key.Matches(km, c.keys.Escape), km.String() == "n":
		return true, nil
	}
	return false, nil
}

func (c *ConfirmModal) View(width, height int) string {
	modalWidth := min(max(width-8, 30), 64)
	return renderModalFrame(c.title, c.question, []string{"y/enter: Kill", "n/ESC: Cancel"}, modalWidth, width, height, ColorRed)
}
