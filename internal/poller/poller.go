// Package poller drives a broadcaster from a fixed-interval ticker.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/tinytelemetry/bitrunner/internal/model"
)

// Emitter is the notification side of a broadcaster.
type Emitter interface {
	Emit() int
}

// Sampler runs at the start of every tick, before the emit. Samplers refresh
// state that subscribers will read.
type Sampler func(now time.Time)

// Driver calls its samplers and then Emit every interval while running.
// At most one ticker goroutine exists per Driver.
type Driver struct {
	interval time.Duration
	emitter  Emitter
	samplers []Sampler

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New creates a stopped driver. A non-positive interval falls back to
// model.DefaultUpdateInterval.
func New(interval time.Duration, emitter Emitter, samplers ...Sampler) *Driver {
	if interval <= 0 {
		interval = model.DefaultUpdateInterval
	}
	return &Driver{
		interval: interval,
		emitter:  emitter,
		samplers: samplers,
	}
}

// Interval returns the tick cadence.
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// Start launches the ticker goroutine. It returns false and does nothing if
// the driver is already running. The driver also stops when ctx is done.
func (d *Driver) Start(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return false
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done
	d.running = true

	go d.loop(runCtx, done)
	return true
}

// Stop cancels the ticker and waits for its goroutine to exit. Once Stop
// returns no further Emit calls originate from this driver. Stop is safe to
// call repeatedly and before Start. It must not be called from a sampler or
// subscriber of this driver.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	cancel, done := d.cancel, d.done
	d.running = false
	d.cancel = nil
	d.done = nil
	d.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the ticker goroutine is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *Driver) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		// Parent context ended without Stop: allow a later Start.
		d.mu.Lock()
		if d.done == done {
			d.cancel()
			d.running = false
			d.cancel = nil
			d.done = nil
		}
		d.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			// A cancel that races the tick wins.
			if ctx.Err() != nil {
				return
			}
			for _, sample := range d.samplers {
				sample(now)
			}
			if d.emitter != nil {
				d.emitter.Emit()
			}
		}
	}
}
