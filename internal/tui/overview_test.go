package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/bitrunner/internal/broadcast"
	"github.com/tinytelemetry/bitrunner/internal/game"
	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

func newTestService(t *testing.T, mutate func(p *model.Player)) *game.Service {
	t.Helper()
	p := game.NewPlayer(1, 60)
	if mutate != nil {
		mutate(&p)
	}
	return game.NewService(hacknet.DefaultTables(), game.RealClock{}, p)
}

func newTestOverview(t *testing.T, reader model.PlayerReader, opts ...OverviewOption) (*Overview, *broadcast.Broadcaster) {
	t.Helper()
	bus := broadcast.New()
	return NewOverview(reader, hacknet.DefaultTables(), bus, time.Hour, opts...), bus
}

// load runs one fetch synchronously and hands the result to the overview.
func load(o *Overview) {
	o.Update(o.fetchCmd()())
}

func mountedSlot(o *Overview, name string) bool {
	for _, s := range o.slots {
		if s.frag.name == name {
			return s.frag.mounted()
		}
	}
	return false
}

type failingReader struct{}

type staticReader struct{ p model.Player }

func (r staticReader) Snapshot(context.Context) (model.Player, error) { return r.p, nil }

func (failingReader) Snapshot(context.Context) (model.Player, error) {
	return model.Player{}, errors.New("connection refused")
}

func TestOverview_VisibilityMountsAndReleasesSubscriptions(t *testing.T) {
	t.Parallel()

	o, bus := newTestOverview(t, newTestService(t, nil))
	if bus.Len() != 0 {
		t.Fatalf("subscriptions before show = %d, want 0", bus.Len())
	}

	if cmd := o.SetVisible(true); cmd == nil {
		t.Fatal("showing the overview did not start the poll timer")
	}
	if bus.Len() == 0 {
		t.Fatal("no fragment subscribed after show")
	}
	if cmd := o.SetVisible(true); cmd != nil {
		t.Fatal("showing twice started a second tick chain")
	}

	o.SetVisible(false)
	if bus.Len() != 0 {
		t.Fatalf("subscriptions after hide = %d, want 0", bus.Len())
	}
	if o.timer.running {
		t.Fatal("poll timer still running after hide")
	}
	o.SetVisible(false)
}

func TestOverview_TickFetchesOnceAndReschedules(t *testing.T) {
	t.Parallel()

	o, _ := newTestOverview(t, newTestService(t, nil))
	o.SetVisible(true)

	tick := PollTickMsg{ID: o.timer.id, gen: o.timer.gen}
	if cmd := o.Update(tick); cmd == nil {
		t.Fatal("tick produced no command")
	}
	if !o.inFlight {
		t.Fatal("tick did not start a fetch")
	}
	if cmd := o.Update(tick); cmd == nil {
		t.Fatal("tick during a fetch did not reschedule")
	}

	o.SetVisible(false)
	if cmd := o.Update(tick); cmd != nil {
		t.Fatal("tick after hide was not dropped")
	}
}

func TestOverview_SnapshotEmitsToFragments(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	o, _ := newTestOverview(t, svc)
	o.SetVisible(true)
	load(o)

	if !o.Loaded() {
		t.Fatal("overview not loaded after snapshot")
	}
	text := o.PlainText()
	for _, want := range []string{"Money", "$1.000k", "hacked: 0 / 15", "no hacking servers yet!", "Hacknet nodes\nnumber: 0"} {
		if !strings.Contains(text, want) {
			t.Errorf("overview missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Gang") || strings.Contains(text, "Bladeburner") {
		t.Errorf("overview shows blocks for missing features:\n%s", text)
	}

	if _, err := svc.PurchaseNode(context.Background()); err != nil {
		t.Fatalf("PurchaseNode: %v", err)
	}
	load(o)
	if text := o.PlainText(); !strings.Contains(text, "Hacknet nodes\nnumber: 1") {
		t.Fatalf("overview did not re-read state after emit:\n%s", text)
	}
}

func TestOverview_IntelligenceRow(t *testing.T) {
	t.Parallel()

	o, _ := newTestOverview(t, newTestService(t, nil))
	o.SetVisible(true)
	load(o)
	if mountedSlot(o, "Int") {
		t.Fatal("Int row mounted without intelligence")
	}

	limit := 3
	svc := newTestService(t, func(p *model.Player) {
		p.Skills.Intelligence = 10
		p.BitNodeOptions.IntelligenceOverride = &limit
	})
	o, _ = newTestOverview(t, svc)
	o.SetVisible(true)
	load(o)
	if !mountedSlot(o, "Int") {
		t.Fatal("Int row not mounted with intelligence")
	}
	if !strings.Contains(o.PlainText(), "3*") {
		t.Fatalf("override marker missing:\n%s", o.PlainText())
	}
}

func TestOverview_InjectedIntelligencePredicate(t *testing.T) {
	t.Parallel()

	always := func(*model.Player) bool { return true }
	o, _ := newTestOverview(t, newTestService(t, nil), WithIntelligencePredicate(always))
	o.SetVisible(true)
	load(o)
	if !mountedSlot(o, "Int") {
		t.Fatal("Int row not mounted with an always-true predicate")
	}
}

func TestOverview_ProgressBarsFollowSetting(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	o, bus := newTestOverview(t, svc)
	o.SetVisible(true)
	load(o)
	if !mountedSlot(o, "Hack-bar") {
		t.Fatal("skill bar not mounted while bars are enabled")
	}
	withBars := bus.Len()

	if _, err := svc.ToggleProgressBars(context.Background()); err != nil {
		t.Fatalf("ToggleProgressBars: %v", err)
	}
	load(o)
	if mountedSlot(o, "Hack-bar") {
		t.Fatal("skill bar still mounted after bars were disabled")
	}
	if bus.Len() >= withBars {
		t.Fatalf("subscriptions = %d, want fewer than %d once bars unmount", bus.Len(), withBars)
	}
}

func TestOverview_FetchErrorKeepsPlaceholder(t *testing.T) {
	t.Parallel()

	o, _ := newTestOverview(t, failingReader{})
	o.SetVisible(true)
	load(o)

	if o.Loaded() {
		t.Fatal("overview loaded from a failed fetch")
	}
	if o.Err() == nil {
		t.Fatal("fetch error not recorded")
	}
	if v := o.View(20); !strings.Contains(v, "Connecting") {
		t.Fatalf("placeholder missing from view: %q", v)
	}
}

func TestOverview_SnapshotAfterHideIsDropped(t *testing.T) {
	t.Parallel()

	o, _ := newTestOverview(t, newTestService(t, nil))
	o.SetVisible(true)
	msg := o.fetchCmd()()
	o.SetVisible(false)
	o.Update(msg)

	if o.Loaded() {
		t.Fatal("snapshot applied while hidden")
	}
}

func TestFragment_MountIsolatesPanickingRender(t *testing.T) {
	t.Parallel()

	var faults []error
	frag := newFragment("boom", lipgloss.NewStyle(), func() string { panic("boom") })
	frag.fault = func(err error) { faults = append(faults, err) }
	bus := broadcast.New(broadcast.WithFaultHandler(func(error) {}))

	frag.mount(bus)
	if !frag.mounted() {
		t.Fatal("fragment not subscribed after a failed first render")
	}
	if frag.text != "" {
		t.Fatalf("text = %q, want empty", frag.text)
	}
	if len(faults) != 1 || !strings.Contains(faults[0].Error(), "boom") {
		t.Fatalf("faults = %v, want one reporting the panic", faults)
	}
	if n := bus.Emit(); n != 1 {
		t.Fatalf("Emit invoked %d callbacks, want 1", n)
	}
	frag.unmount()
	if bus.Len() != 0 {
		t.Fatalf("subscriptions after unmount = %d, want 0", bus.Len())
	}
}

func TestOverview_MalformedWorkSurvivesRemount(t *testing.T) {
	t.Parallel()

	p := game.NewPlayer(1, 60)
	p.CurrentWork = &model.Work{Kind: model.WorkCrime}
	o, _ := newTestOverview(t, staticReader{p: p})

	o.SetVisible(true)
	load(o)
	o.SetVisible(false)
	o.SetVisible(true)

	if !mountedSlot(o, "work") {
		t.Fatal("work fragment not mounted after show")
	}
	if strings.Contains(o.PlainText(), "attempting") {
		t.Fatalf("malformed work rendered:\n%s", o.PlainText())
	}
	if !strings.Contains(o.PlainText(), "hacked:") {
		t.Fatalf("other blocks missing after remount:\n%s", o.PlainText())
	}
}
