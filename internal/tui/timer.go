package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastTimerID int64

func nextTimerID() int {
	return int(atomic.AddInt64(&lastTimerID, 1))
}

// PollTickMsg fires on a poll timer's interval.
type PollTickMsg struct {
	ID  int
	gen int
	At  time.Time
}

// pollTimer is a restartable tea.Tick chain. Every start or stop bumps the
// generation, so ticks scheduled before it are ignored when they arrive.
type pollTimer struct {
	id       int
	interval time.Duration
	gen      int
	running  bool
}

func newPollTimer(interval time.Duration) *pollTimer {
	return &pollTimer{id: nextTimerID(), interval: interval}
}

// start schedules the first tick. It returns nil when already running.
func (t *pollTimer) start() tea.Cmd {
	if t.running {
		return nil
	}
	t.running = true
	t.gen++
	return t.tick()
}

// stop drops any in-flight tick. Calling it while stopped is a no-op.
func (t *pollTimer) stop() {
	if !t.running {
		return
	}
	t.running = false
	t.gen++
}

// accept reports whether msg belongs to the live chain.
func (t *pollTimer) accept(msg PollTickMsg) bool {
	return t.running && msg.ID == t.id && msg.gen == t.gen
}

func (t *pollTimer) tick() tea.Cmd {
	id, gen := t.id, t.gen
	return tea.Tick(t.interval, func(at time.Time) tea.Msg {
		return PollTickMsg{ID: id, gen: gen, At: at}
	})
}
