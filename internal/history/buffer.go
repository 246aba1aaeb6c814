package history

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tinytelemetry/bitrunner/internal/model"
)

// DefaultFlushQueueSize is the number of batches that can wait for the flush worker.
const DefaultFlushQueueSize = 16

// SampleWriter persists a batch of samples.
type SampleWriter interface {
	InsertSamples(samples []model.Sample) error
}

// InsertBuffer batches samples and writes them from a background worker so
// Add never waits on DuckDB.
type InsertBuffer struct {
	writer        SampleWriter
	mu            sync.Mutex
	pending       []model.Sample
	flushChan     chan []model.Sample
	maxBatch      int
	flushInterval time.Duration
	done          chan struct{}
	wg            sync.WaitGroup
	tickWg        sync.WaitGroup
	stopOnce      sync.Once

	inlineFlushes atomic.Int64
	lastInlineLog atomic.Int64
}

// InsertBufferConfig holds tunable parameters for the insert buffer.
type InsertBufferConfig struct {
	BatchSize      int
	FlushInterval  time.Duration
	FlushQueueSize int
}

// NewInsertBuffer starts the flush worker and the periodic drain.
func NewInsertBuffer(writer SampleWriter, conf ...InsertBufferConfig) *InsertBuffer {
	batchSize := 64
	flushInterval := 5 * time.Second
	flushQueueSize := DefaultFlushQueueSize
	if len(conf) > 0 {
		if conf[0].BatchSize > 0 {
			batchSize = conf[0].BatchSize
		}
		if conf[0].FlushInterval > 0 {
			flushInterval = conf[0].FlushInterval
		}
		if conf[0].FlushQueueSize > 0 {
			flushQueueSize = conf[0].FlushQueueSize
		}
	}

	b := &InsertBuffer{
		writer:        writer,
		pending:       make([]model.Sample, 0, batchSize),
		flushChan:     make(chan []model.Sample, flushQueueSize),
		maxBatch:      batchSize,
		flushInterval: flushInterval,
		done:          make(chan struct{}),
	}

	b.wg.Add(1)
	go b.flushWorker()

	b.wg.Add(1)
	b.tickWg.Add(1)
	go b.tickLoop()

	return b
}

func (b *InsertBuffer) tickLoop() {
	defer b.wg.Done()
	defer b.tickWg.Done()
	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.drainPending()
		case <-b.done:
			b.drainPending()
			return
		}
	}
}

func (b *InsertBuffer) drainPending() {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.pending
	b.pending = make([]model.Sample, 0, b.maxBatch)
	b.mu.Unlock()

	b.enqueue(batch)
}

// enqueue hands batch to the worker, or writes it inline when the queue is full.
func (b *InsertBuffer) enqueue(batch []model.Sample) {
	select {
	case b.flushChan <- batch:
	default:
		b.logInlineFlush()
		if err := b.writer.InsertSamples(batch); err != nil {
			log.Printf("history: flush error (inline): %v", err)
		}
	}
}

func (b *InsertBuffer) logInlineFlush() {
	count := b.inlineFlushes.Add(1)
	now := time.Now().Unix()
	last := b.lastInlineLog.Load()
	if now-last >= 10 && b.lastInlineLog.CompareAndSwap(last, now) {
		log.Printf("history: %d inline flushes, DuckDB is falling behind", count)
	}
}

func (b *InsertBuffer) flushWorker() {
	defer b.wg.Done()
	for batch := range b.flushChan {
		if err := b.writer.InsertSamples(batch); err != nil {
			log.Printf("history: flush error: %v", err)
		}
	}
}

// Add queues one sample.
func (b *InsertBuffer) Add(s model.Sample) {
	b.mu.Lock()
	b.pending = append(b.pending, s)
	var batch []model.Sample
	if len(b.pending) >= b.maxBatch {
		batch = b.pending
		b.pending = make([]model.Sample, 0, b.maxBatch)
	}
	b.mu.Unlock()

	if batch != nil {
		b.enqueue(batch)
	}
}

// Stop writes everything still pending and waits for the worker. It is safe
// to call more than once. Add must not be called after Stop.
func (b *InsertBuffer) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.tickWg.Wait()
		close(b.flushChan)
		b.wg.Wait()
	})
}
