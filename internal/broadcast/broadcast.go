// Package broadcast fans a payload-free "something changed, re-read" signal
// out to any number of subscribers.
package broadcast

import (
	"fmt"
	"log"
	"runtime/debug"
	"sync"
)

// Unsubscribe releases one subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// FaultHandler receives panics recovered from subscriber callbacks.
type FaultHandler func(err error)

// Broadcaster holds a set of callbacks and invokes all of them on Emit.
type Broadcaster struct {
	mu      sync.Mutex
	nextID  uint64
	subs    map[uint64]func()
	onFault FaultHandler
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithFaultHandler overrides where recovered subscriber panics are reported.
func WithFaultHandler(h FaultHandler) Option {
	return func(b *Broadcaster) {
		if h != nil {
			b.onFault = h
		}
	}
}

// New creates an empty broadcaster.
func New(opts ...Option) *Broadcaster {
	b := &Broadcaster{
		subs: make(map[uint64]func()),
		onFault: func(err error) {
			log.Printf("broadcast: %v", err)
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn and returns the handle that removes it.
// A nil fn registers nothing and returns a no-op handle.
func (b *Broadcaster) Subscribe(fn func()) Unsubscribe {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Emit calls every callback registered at the time of the call exactly once
// and returns how many were invoked. Callbacks run outside the lock, so they
// may subscribe or unsubscribe; such changes apply from the next Emit.
func (b *Broadcaster) Emit() int {
	b.mu.Lock()
	callbacks := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		callbacks = append(callbacks, fn)
	}
	b.mu.Unlock()

	for _, fn := range callbacks {
		b.invoke(fn)
	}
	return len(callbacks)
}

// Len returns the number of active subscriptions.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broadcaster) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.onFault(fmt.Errorf("subscriber panicked: %v\n%s", r, debug.Stack()))
		}
	}()
	fn()
}
