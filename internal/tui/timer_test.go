package tui

import (
	"testing"
	"time"
)

func TestPollTimer_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	pt := newPollTimer(time.Second)
	if cmd := pt.start(); cmd == nil {
		t.Fatal("first start returned nil cmd")
	}
	gen := pt.gen
	if cmd := pt.start(); cmd != nil {
		t.Fatal("second start scheduled another tick chain")
	}
	if pt.gen != gen {
		t.Fatalf("gen changed on redundant start: %d -> %d", gen, pt.gen)
	}
}

func TestPollTimer_StopDropsInflightTick(t *testing.T) {
	t.Parallel()

	pt := newPollTimer(time.Second)
	pt.start()
	inflight := PollTickMsg{ID: pt.id, gen: pt.gen}
	if !pt.accept(inflight) {
		t.Fatal("live tick rejected")
	}

	pt.stop()
	if pt.accept(inflight) {
		t.Fatal("tick accepted after stop")
	}
	gen := pt.gen
	pt.stop()
	if pt.gen != gen {
		t.Fatal("second stop changed the generation")
	}

	pt.start()
	if pt.accept(inflight) {
		t.Fatal("tick from the previous chain accepted after restart")
	}
	if !pt.accept(PollTickMsg{ID: pt.id, gen: pt.gen}) {
		t.Fatal("tick from the new chain rejected")
	}
}

func TestPollTimer_IgnoresOtherTimers(t *testing.T) {
	t.Parallel()

	a := newPollTimer(time.Second)
	b := newPollTimer(time.Second)
	a.start()
	b.start()
	if a.accept(PollTickMsg{ID: b.id, gen: b.gen}) {
		t.Fatal("timer accepted another timer's tick")
	}
}
