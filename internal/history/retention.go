package history

import (
	"log"
	"sync"
	"time"
)

// RetentionConfig controls how long samples are kept.
type RetentionConfig struct {
	Retention time.Duration
	Interval  time.Duration
}

// RetentionCleaner periodically deletes samples older than the retention window.
type RetentionCleaner struct {
	store     *Store
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewRetentionCleaner runs one cleanup immediately and then every interval
// (default one hour). It returns nil when retention is not positive.
func NewRetentionCleaner(store *Store, conf RetentionConfig) *RetentionCleaner {
	if conf.Retention <= 0 {
		return nil
	}
	interval := conf.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	rc := &RetentionCleaner{
		store:     store,
		retention: conf.Retention,
		interval:  interval,
		now:       time.Now,
		done:      make(chan struct{}),
	}

	// Catch up after downtime.
	rc.cleanup()

	rc.wg.Add(1)
	go rc.tickLoop()
	return rc
}

func (rc *RetentionCleaner) tickLoop() {
	defer rc.wg.Done()
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.cleanup()
		case <-rc.done:
			return
		}
	}
}

func (rc *RetentionCleaner) cleanup() {
	cutoff := rc.now().Add(-rc.retention)
	rows, err := rc.store.DeleteBefore(cutoff)
	if err != nil {
		log.Printf("history: retention cleanup error: %v", err)
		return
	}
	if rows > 0 {
		log.Printf("history: retention cleanup deleted %d samples older than %s", rows, rc.retention)
	}
}

// Stop ends the cleaner and waits for it. Safe to call more than once.
func (rc *RetentionCleaner) Stop() {
	rc.stopOnce.Do(func() {
		close(rc.done)
		rc.wg.Wait()
	})
}
