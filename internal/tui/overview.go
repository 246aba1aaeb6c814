package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/bitrunner/internal/broadcast"
	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// snapshotMsg carries a fetched player state back to the overview.
type snapshotMsg struct {
	id     int
	player model.Player
	err    error
}

// IntelligencePredicate decides whether the Int row is shown.
type IntelligencePredicate func(p *model.Player) bool

// HasIntelligence is the default predicate: the skill has been unlocked.
func HasIntelligence(p *model.Player) bool {
	return p.Skills.Intelligence > 0
}

// OverviewOption configures an Overview.
type OverviewOption func(*Overview)

// WithIntelligencePredicate replaces HasIntelligence.
func WithIntelligencePredicate(fn IntelligencePredicate) OverviewOption {
	return func(o *Overview) { o.hasIntelligence = fn }
}

// Overview is the character sidebar. While visible it polls the game on a
// fixed interval, stores the snapshot as shared state and emits on the
// broadcaster so every mounted fragment re-reads it.
type Overview struct {
	game   model.PlayerReader
	tables hacknet.Tables
	bus    *broadcast.Broadcaster
	timer  *pollTimer

	hasIntelligence IntelligencePredicate

	player   model.Player
	loaded   bool
	showBars bool
	showInt  bool

	visible  bool
	inFlight bool
	lastErr  error
	lastOK   time.Time

	slots []slot
}

// NewOverview builds the sidebar. Nothing polls until SetVisible(true).
func NewOverview(game model.PlayerReader, tables hacknet.Tables, bus *broadcast.Broadcaster, interval time.Duration, opts ...OverviewOption) *Overview {
	if interval <= 0 {
		interval = model.DefaultUpdateInterval
	}
	o := &Overview{
		game:            game,
		tables:          tables,
		bus:             bus,
		timer:           newPollTimer(interval),
		hasIntelligence: HasIntelligence,
		showBars:        true,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.slots = o.buildSlots()
	return o
}

func (o *Overview) buildSlots() []slot {
	p := &o.player
	slots := []slot{
		{frag: newFragment("hp", lipgloss.NewStyle().Foreground(ColorHP), func() string { return hpText(p) })},
		{frag: newFragment("money", lipgloss.NewStyle().Foreground(ColorMoney), func() string { return moneyText(p) })},
	}
	for _, row := range skillRows() {
		row := row
		var when, barWhen func() bool
		if row.label == intRow.label {
			when = func() bool { return o.showInt }
			barWhen = func() bool { return o.showInt && o.showBars }
		} else {
			barWhen = func() bool { return o.showBars }
		}
		slots = append(slots, slot{
			frag: newFragment(row.label, lipgloss.NewStyle().Foreground(row.color), func() string { return skillText(row, p) }),
			when: when,
		})

		bar := progress.New(
			progress.WithSolidFill(string(row.color)),
			progress.WithoutPercentage(),
			progress.WithWidth(overviewWidth),
		)
		barFrag := newFragment(row.label+"-bar", lipgloss.NewStyle(), func() string {
			prog := model.CalculateSkillProgress(row.exp(p), row.mult(p))
			return bar.ViewAs(prog.ProgressFraction)
		})
		barFrag.decorative = true
		slots = append(slots, slot{frag: barFrag, when: barWhen})
	}

	slots = append(slots,
		slot{frag: newBlockFragment("hacked-servers", blockHeaderStyle, func() string { return hackedServersText(p) })},
		slot{frag: newBlockFragment("hacking-servers", blockHeaderStyle, func() string { return hackingServersText(p) })},
		slot{frag: newBlockFragment("hacknet", blockHeaderStyle, func() string { return hacknetText(p, o.tables) })},
		slot{frag: newBlockFragment("gang", blockHeaderStyle, func() string { return gangText(p) })},
		slot{frag: newBlockFragment("work", workHeaderStyle, func() string { return workText(p) })},
		slot{frag: newBlockFragment("bladeburner", blockHeaderStyle, func() string { return bladeburnerText(p) })},
	)
	return slots
}

// SetVisible starts or stops polling. Hiding the overview also unmounts every
// fragment, releasing their subscriptions.
func (o *Overview) SetVisible(visible bool) tea.Cmd {
	o.visible = visible
	if !visible {
		o.timer.stop()
		o.syncMounts()
		return nil
	}
	o.syncMounts()
	return o.timer.start()
}

// Visible reports whether the overview is shown and polling.
func (o *Overview) Visible() bool { return o.visible }

// Refresh fetches a snapshot now, outside the regular cadence.
func (o *Overview) Refresh() tea.Cmd {
	if !o.visible || o.inFlight {
		return nil
	}
	o.inFlight = true
	return o.fetchCmd()
}

// Update handles the overview's own poll ticks and snapshots; other
// messages are ignored.
func (o *Overview) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PollTickMsg:
		if !o.timer.accept(msg) {
			return nil
		}
		next := o.timer.tick()
		if o.inFlight {
			return next
		}
		o.inFlight = true
		return tea.Batch(o.fetchCmd(), next)

	case snapshotMsg:
		if msg.id != o.timer.id {
			return nil
		}
		o.inFlight = false
		if !o.visible {
			return nil
		}
		if msg.err != nil {
			o.lastErr = msg.err
		} else {
			o.player = msg.player
			o.loaded = true
			o.lastErr = nil
			o.lastOK = time.Now()
		}
		o.sample()
		o.syncMounts()
		o.bus.Emit()
	}
	return nil
}

func (o *Overview) fetchCmd() tea.Cmd {
	game, id, timeout := o.game, o.timer.id, o.timer.interval*5
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		p, err := game.Snapshot(ctx)
		return snapshotMsg{id: id, player: p, err: err}
	}
}

// sample re-reads the two settings that decide which rows are mounted.
func (o *Overview) sample() {
	o.showBars = !o.player.Settings.DisableOverviewProgressBars
	o.showInt = o.loaded && o.hasIntelligence(&o.player)
}

func (o *Overview) syncMounts() {
	for _, s := range o.slots {
		want := o.visible && s.wanted()
		switch {
		case want && !s.frag.mounted():
			s.frag.mount(o.bus)
		case !want && s.frag.mounted():
			s.frag.unmount()
		}
	}
}

// Player returns the last fetched state.
func (o *Overview) Player() model.Player { return o.player }

// ShowsIntelligence reports whether the Int row is mounted.
func (o *Overview) ShowsIntelligence() bool { return o.showInt }

// Loaded reports whether at least one snapshot has arrived.
func (o *Overview) Loaded() bool { return o.loaded }

// Err is the error from the most recent fetch, if it failed.
func (o *Overview) Err() error { return o.lastErr }

// Tables returns the tuning tables used for rates.
func (o *Overview) Tables() hacknet.Tables { return o.tables }

// Bus is the broadcaster the overview emits on.
func (o *Overview) Bus() *broadcast.Broadcaster { return o.bus }

// View renders the mounted fragments inside the sidebar frame.
func (o *Overview) View(height int) string {
	style := lipgloss.NewStyle().
		Width(overviewWidth+2).
		Height(height).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)

	if !o.loaded {
		return style.Render(renderLoadingPlaceholder(overviewWidth, max(height-2, 1)))
	}

	var parts []string
	for _, s := range o.slots {
		if v := s.frag.view(); v != "" {
			parts = append(parts, v)
		}
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// PlainText is the overview without styling or bars, for the clipboard.
func (o *Overview) PlainText() string {
	var lines []string
	for _, s := range o.slots {
		if s.frag.decorative || s.frag.text == "" {
			continue
		}
		lines = append(lines, s.frag.text)
	}
	return strings.Join(lines, "\n")
}
