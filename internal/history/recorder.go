package history

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// Sink accepts samples without blocking.
type Sink interface {
	Add(s model.Sample)
}

// Recorder turns broadcast ticks into history samples, at most one per interval.
type Recorder struct {
	reader   model.PlayerReader
	tables   hacknet.Tables
	sink     Sink
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewRecorder builds a recorder. A non-positive interval records every tick.
func NewRecorder(reader model.PlayerReader, tables hacknet.Tables, sink Sink, interval time.Duration) *Recorder {
	return &Recorder{
		reader:   reader,
		tables:   tables,
		sink:     sink,
		interval: interval,
		now:      time.Now,
	}
}

// Notify is the broadcaster callback.
func (r *Recorder) Notify() {
	now := r.now()

	r.mu.Lock()
	if !r.last.IsZero() && now.Sub(r.last) < r.interval {
		r.mu.Unlock()
		return
	}
	r.last = now
	r.mu.Unlock()

	p, err := r.reader.Snapshot(context.Background())
	if err != nil {
		log.Printf("history: snapshot: %v", err)
		return
	}
	s := model.SampleOf(p, r.tables)
	if s.At.IsZero() {
		s.At = now
	}
	r.sink.Add(s)
}
