package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/bitrunner/internal/game"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T, svc *game.Service) (*App, *Overview) {
	t.Helper()
	o, _ := newTestOverview(t, svc)
	keys := DefaultKeyMap()
	app := NewApp(o, svc, keys, NewHacknetPage(o, svc, keys), NewSkillsPage(o))
	app.Init()
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	load(o)
	return app, o
}

// finish runs an action command and feeds its result back into the app.
func finish(t *testing.T, app *App, cmd tea.Cmd) actionDoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected an action command")
	}
	msg, ok := cmd().(actionDoneMsg)
	if !ok {
		t.Fatalf("command produced %T, want actionDoneMsg", msg)
	}
	app.Update(msg)
	return msg
}

func TestApp_KillScriptsAsksFirst(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(p *model.Player) { p.RunningScripts = 3 })
	app, _ := newTestApp(t, svc)

	app.Update(runeKey("K"))
	if top := app.modals.top(); top == nil || top.ID() != "kill-scripts" {
		t.Fatalf("top modal = %v, want kill-scripts", top)
	}

	_, cmd := app.Update(runeKey("y"))
	if app.modals.top() != nil {
		t.Fatal("confirm modal still open after confirming")
	}
	msg := finish(t, app, cmd)
	if msg.err != nil || msg.text != "killed 3 running scripts" {
		t.Fatalf("kill result = %+v", msg)
	}
	p, _ := svc.Snapshot(context.Background())
	if p.RunningScripts != 0 {
		t.Fatalf("running scripts = %d, want 0", p.RunningScripts)
	}
}

func TestApp_KillScriptsCancel(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(p *model.Player) { p.RunningScripts = 2 })
	app, _ := newTestApp(t, svc)

	app.Update(runeKey("K"))
	_, cmd := app.Update(runeKey("n"))
	if cmd != nil || app.modals.top() != nil {
		t.Fatal("cancel did not close the modal cleanly")
	}
	p, _ := svc.Snapshot(context.Background())
	if p.RunningScripts != 2 {
		t.Fatalf("running scripts = %d, want 2", p.RunningScripts)
	}
}

func TestApp_ToggleOverviewPausesPolling(t *testing.T) {
	t.Parallel()

	app, o := newTestApp(t, newTestService(t, nil))
	if !o.Visible() {
		t.Fatal("overview hidden after Init")
	}

	app.Update(runeKey("o"))
	if o.Visible() || o.timer.running {
		t.Fatal("overview still polling after toggle")
	}
	if !strings.Contains(app.View(), "paused") {
		t.Fatal("status line does not say paused")
	}

	app.Update(runeKey("o"))
	if !o.Visible() || !o.timer.running {
		t.Fatal("overview not polling after second toggle")
	}
}

func TestApp_SaveWithoutSaverReportsError(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newTestService(t, nil))
	_, cmd := app.Update(runeKey("s"))
	msg := finish(t, app, cmd)
	if msg.err == nil {
		t.Fatal("save without a saver succeeded")
	}
	if !app.statusErr || app.status != "saving is not configured on the service" {
		t.Fatalf("status = %q (err=%v)", app.status, app.statusErr)
	}
}

func TestApp_AutosaveDisabledWarning(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(p *model.Player) { p.Settings.AutosaveInterval = 0 })
	app, _ := newTestApp(t, svc)
	if !strings.Contains(app.View(), "auto-saves are disabled") {
		t.Fatal("missing autosave warning")
	}
}

func TestApp_CopyOverview(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newTestService(t, nil))
	var copied string
	app.copy = func(s string) error {
		copied = s
		return nil
	}

	app.Update(runeKey("y"))
	if !strings.Contains(copied, "Money") || strings.Contains(copied, "\x1b[") {
		t.Fatalf("copied text = %q", copied)
	}
}

func TestApp_PageSwitchReleasesSubscriptions(t *testing.T) {
	t.Parallel()

	app, o := newTestApp(t, newTestService(t, nil))
	before := o.Bus().Len()

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if app.activePage().ID() != "skills" {
		t.Fatalf("active page = %s, want skills", app.activePage().ID())
	}
	if got := o.Bus().Len(); got != before {
		t.Fatalf("subscriptions after switch = %d, want %d", got, before)
	}

	hp := app.pages[0].(*HacknetPage)
	if hp.unsub != nil {
		t.Fatal("hacknet page kept its subscription after leaving")
	}
}

func TestApp_HelpModal(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, newTestService(t, nil))
	app.Update(runeKey("?"))
	if top := app.modals.top(); top == nil || top.ID() != "help" {
		t.Fatal("help modal not open")
	}
	if !strings.Contains(app.View(), "kill all scripts") {
		t.Fatal("help does not list key bindings")
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if app.modals.top() != nil {
		t.Fatal("help modal still open after esc")
	}
}
