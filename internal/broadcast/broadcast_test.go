package broadcast

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
)

func TestEmitScenario(t *testing.T) {
	t.Parallel()

	b := New()
	var a, bb int
	unsubA := b.Subscribe(func() { a++ })
	unsubB := b.Subscribe(func() { bb++ })

	if n := b.Emit(); n != 2 {
		t.Fatalf("first emit invoked %d callbacks, want 2", n)
	}
	if a != 1 || bb != 1 {
		t.Fatalf("after first emit a=%d b=%d, want 1 1", a, bb)
	}

	unsubA()
	if n := b.Emit(); n != 1 {
		t.Fatalf("second emit invoked %d callbacks, want 1", n)
	}
	if a != 1 || bb != 2 {
		t.Fatalf("after second emit a=%d b=%d, want 1 2", a, bb)
	}

	unsubB()
	if n := b.Emit(); n != 0 {
		t.Fatalf("third emit invoked %d callbacks, want 0", n)
	}
	if a != 1 || bb != 2 {
		t.Fatalf("after third emit a=%d b=%d, want 1 2", a, bb)
	}
}

func TestDoubleUnsubscribeIsNoop(t *testing.T) {
	t.Parallel()

	b := New()
	unsub := b.Subscribe(func() {})
	other := b.Subscribe(func() {})

	unsub()
	unsub()

	if got := b.Len(); got != 1 {
		t.Fatalf("Len after double unsubscribe = %d, want 1", got)
	}
	other()
	if got := b.Len(); got != 0 {
		t.Fatalf("Len = %d, want 0", got)
	}
}

func TestSameCallbackSubscribedTwice(t *testing.T) {
	t.Parallel()

	b := New()
	calls := 0
	fn := func() { calls++ }
	first := b.Subscribe(fn)
	b.Subscribe(fn)

	b.Emit()
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 (one per registration)", calls)
	}

	first()
	b.Emit()
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 after removing one registration", calls)
	}
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	t.Parallel()

	var faults []error
	b := New(WithFaultHandler(func(err error) { faults = append(faults, err) }))

	ran := 0
	b.Subscribe(func() { ran++ })
	b.Subscribe(func() { panic(errors.New("boom")) })
	b.Subscribe(func() { ran++ })

	if n := b.Emit(); n != 3 {
		t.Fatalf("emit invoked %d callbacks, want 3", n)
	}
	if ran != 2 {
		t.Fatalf("healthy subscribers ran %d times, want 2", ran)
	}
	if len(faults) != 1 {
		t.Fatalf("faults reported = %d, want 1", len(faults))
	}
}

func TestNilCallback(t *testing.T) {
	t.Parallel()

	b := New()
	unsub := b.Subscribe(nil)
	unsub()
	if got := b.Len(); got != 0 {
		t.Fatalf("Len = %d, want 0", got)
	}
}

func TestUnsubscribeDuringEmit(t *testing.T) {
	t.Parallel()

	b := New()
	calls := 0
	var unsub Unsubscribe
	unsub = b.Subscribe(func() {
		calls++
		unsub()
	})

	b.Emit()
	b.Emit()
	if calls != 1 {
		t.Fatalf("self-removing subscriber ran %d times, want 1", calls)
	}
}

func TestEmitCountMatchesActiveSubscriptions(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	b := New()
	var handles []Unsubscribe

	for step := 0; step < 500; step++ {
		if len(handles) == 0 || rng.Intn(3) > 0 {
			handles = append(handles, b.Subscribe(func() {}))
		} else {
			i := rng.Intn(len(handles))
			handles[i]()
			if rng.Intn(2) == 0 {
				handles[i]()
			}
			handles = append(handles[:i], handles[i+1:]...)
		}

		if got := b.Emit(); got != len(handles) {
			t.Fatalf("step %d: emit invoked %d, want %d", step, got, len(handles))
		}
	}
}

func TestConcurrentSubscribeAndEmit(t *testing.T) {
	t.Parallel()

	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				unsub := b.Subscribe(func() {})
				b.Emit()
				unsub()
			}
		}()
	}
	wg.Wait()

	if got := b.Len(); got != 0 {
		t.Fatalf("Len = %d, want 0", got)
	}
}
