package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/bitrunner/internal/model"
)

const statusTTL = 5 * time.Second

type statusClearMsg struct{ seq int }

// App is the top-level Bubble Tea model: the overview sidebar on the left,
// the active page on the right and a modal stack on top.
type App struct {
	overview *Overview
	actions  model.PlayerActions
	pages    []Page
	active   int

	keys   KeyMap
	help   help.Model
	modals modalStack

	status    string
	statusErr bool
	statusSeq int

	width  int
	height int

	// copy writes to the system clipboard.
	copy func(string) error
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(overview *Overview, actions model.PlayerActions, keys KeyMap, pages ...Page) *App {
	return &App{
		overview: overview,
		actions:  actions,
		pages:    pages,
		keys:     keys,
		help:     help.New(),
		copy:     clipboard.WriteAll,
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.overview.SetVisible(true)}
	if p := a.activePage(); p != nil {
		cmds = append(cmds, p.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) activePage() Page {
	if a.active < 0 || a.active >= len(a.pages) {
		return nil
	}
	return a.pages[a.active]
}

func (a *App) switchPage(idx int) tea.Cmd {
	if len(a.pages) == 0 {
		return nil
	}
	idx = (idx + len(a.pages)) % len(a.pages)
	if idx == a.active {
		return nil
	}
	if l, ok := a.activePage().(Leaver); ok {
		l.Leave()
	}
	a.active = idx
	return a.activePage().Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case PollTickMsg, snapshotMsg:
		return a, a.overview.Update(msg)

	case actionDoneMsg:
		if msg.err != nil {
			log.Printf("tui: action failed: %v", msg.err)
			return a, a.setStatus(describeError(msg.err), true)
		}
		return a, tea.Batch(a.setStatus(msg.text, false), a.overview.Refresh())

	case statusClearMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
			a.statusErr = false
		}
		return a, nil
	}

	if p := a.activePage(); p != nil {
		cmd, nav := p.Update(msg)
		return a, tea.Batch(cmd, a.navigate(nav))
	}
	return a, nil
}

func (a *App) navigate(nav *PageNav) tea.Cmd {
	if nav == nil {
		return nil
	}
	for i, p := range a.pages {
		if p.ID() == nav.PageID {
			return a.switchPage(i)
		}
	}
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.ForceQuit) {
		return tea.Quit
	}
	if modal := a.modals.top(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			a.modals.pop()
		}
		return cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.modals.push(NewHelpModal(a.keys))
		return nil
	case key.Matches(msg, a.keys.ToggleOverview):
		visible := !a.overview.Visible()
		cmd := a.overview.SetVisible(visible)
		if visible {
			return tea.Batch(cmd, a.overview.Refresh(), a.setStatus("live updates resumed", false))
		}
		return a.setStatus("live updates paused", false)
	case key.Matches(msg, a.keys.NextPage):
		return a.switchPage(a.active + 1)
	case key.Matches(msg, a.keys.PrevPage):
		return a.switchPage(a.active - 1)
	case key.Matches(msg, a.keys.Save):
		return a.saveCmd()
	case key.Matches(msg, a.keys.KillScripts):
		a.modals.push(NewKillScriptsModal(a.keys, a.killScriptsCmd))
		return nil
	case key.Matches(msg, a.keys.Focus):
		return a.focusCmd()
	case key.Matches(msg, a.keys.ToggleBars):
		return a.toggleBarsCmd()
	case key.Matches(msg, a.keys.Copy):
		return a.copyOverview()
	}

	if p := a.activePage(); p != nil {
		cmd, nav := p.Update(msg)
		return tea.Batch(cmd, a.navigate(nav))
	}
	return nil
}

func (a *App) setStatus(text string, isErr bool) tea.Cmd {
	a.statusSeq++
	a.status = text
	a.statusErr = isErr
	seq := a.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (a *App) saveCmd() tea.Cmd {
	actions := a.actions
	return runAction(func(ctx context.Context) (string, error) {
		if err := actions.Save(ctx); err != nil {
			return "", err
		}
		return "game saved", nil
	})
}

func (a *App) killScriptsCmd() tea.Cmd {
	actions := a.actions
	return runAction(func(ctx context.Context) (string, error) {
		n, err := actions.KillScripts(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("killed %d running scripts", n), nil
	})
}

func (a *App) focusCmd() tea.Cmd {
	actions := a.actions
	return runAction(func(ctx context.Context) (string, error) {
		if err := actions.StartFocusing(ctx); err != nil {
			return "", err
		}
		return "focusing on work", nil
	})
}

func (a *App) toggleBarsCmd() tea.Cmd {
	actions := a.actions
	return runAction(func(ctx context.Context) (string, error) {
		shown, err := actions.ToggleProgressBars(ctx)
		if err != nil {
			return "", err
		}
		if shown {
			return "skill bars shown", nil
		}
		return "skill bars hidden", nil
	})
}

func (a *App) copyOverview() tea.Cmd {
	if !a.overview.Loaded() {
		return a.setStatus("nothing to copy yet", true)
	}
	if err := a.copy(a.overview.PlainText()); err != nil {
		log.Printf("tui: clipboard copy failed: %v", err)
		return a.setStatus("clipboard unavailable", true)
	}
	return a.setStatus("overview copied to clipboard", false)
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}
	if modal := a.modals.top(); modal != nil {
		return modal.View(a.width, a.height)
	}

	bodyHeight := max(a.height-2, 1)
	contentWidth := a.width
	var left string
	if a.overview.Visible() {
		left = a.overview.View(bodyHeight - 2)
		contentWidth -= lipgloss.Width(left) + 1
	}

	var right string
	if p := a.activePage(); p != nil {
		right = lipgloss.NewStyle().Padding(0, 1).Render(p.View(max(contentWidth-2, 10), bodyHeight))
	}

	body := right
	if left != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), body, a.renderStatusLine())
}

func (a *App) renderTabs() string {
	tabs := make([]string, 0, len(a.pages))
	for i, p := range a.pages {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(ColorGray)
		if i == a.active {
			style = style.Foreground(ColorWhite).Background(ColorNavy).Bold(true)
		}
		tabs = append(tabs, style.Render(p.Title()))
	}
	return strings.Join(tabs, " ")
}

func (a *App) renderStatusLine() string {
	var parts []string

	p := a.overview.Player()
	switch {
	case !a.overview.Visible():
		parts = append(parts, lipgloss.NewStyle().Foreground(ColorYellow).Render("paused"))
	case a.overview.Err() != nil:
		parts = append(parts, errorStyle.Render("● disconnected"))
	case a.overview.Loaded():
		parts = append(parts, lipgloss.NewStyle().Foreground(ColorGreen).Render("● live"))
	}
	if a.overview.Loaded() && p.Settings.AutosaveInterval == 0 {
		parts = append(parts, errorStyle.Render("save (auto-saves are disabled!)"))
	}

	if a.status != "" {
		style := blockTextStyle
		if a.statusErr {
			style = errorStyle
		}
		parts = append(parts, style.Render(a.status))
	}

	a.help.Width = a.width
	parts = append(parts, a.help.View(a.keys))
	return strings.Join(parts, "  ")
}
