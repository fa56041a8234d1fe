// Package toolkittest provides an in-memory toolkit implementation used by
// the behavior tests and the demo binary. The fakes record calls and expose
// counters so tests can assert on open/close activity and on bindings being
// released.
package toolkittest

import (
	"sync"
	"sync/atomic"

	"github.com/spindleui/spindle/toolkit"
)

var _ toolkit.Signal = (*FakeSignal)(nil)

// FakeSignal is a toolkit.Signal that can be emitted manually.
type FakeSignal struct {
	subscribers sync.Map // uint64 -> chan struct{}
	counter     atomic.Uint64
	active      atomic.Int64
}

// NewFakeSignal creates a FakeSignal with no subscribers.
func NewFakeSignal() *FakeSignal {
	return &FakeSignal{}
}

// Subscribe implements toolkit.Signal.
func (s *FakeSignal) Subscribe() (<-chan struct{}, toolkit.Binding) {
	ch := make(chan struct{}, 1)
	id := s.counter.Add(1)
	s.subscribers.Store(id, ch)
	s.active.Add(1)
	return ch, toolkit.NewBinding(func() {
		s.subscribers.Delete(id)
		s.active.Add(-1)
	})
}

// Emit delivers one event to every subscriber. A subscriber that already has
// a pending event is skipped.
func (s *FakeSignal) Emit() {
	s.subscribers.Range(func(_, value any) bool {
		ch := value.(chan struct{})
		select {
		case ch <- struct{}{}:
		default:
		}
		return true
	})
}

// ActiveSubscribers returns the number of subscriptions not yet released.
func (s *FakeSignal) ActiveSubscribers() int {
	return int(s.active.Load())
}

// callbackSet stores widget callbacks keyed by a monotonically increasing id.
type callbackSet struct {
	mu      sync.Mutex
	next    uint64
	entries map[uint64]func(toolkit.Widget)
}

func (cs *callbackSet) add(fn func(toolkit.Widget)) toolkit.Binding {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.entries == nil {
		cs.entries = make(map[uint64]func(toolkit.Widget))
	}
	cs.next++
	id := cs.next
	cs.entries[id] = fn
	return toolkit.NewBinding(func() {
		cs.mu.Lock()
		defer cs.mu.Unlock()
		delete(cs.entries, id)
	})
}

func (cs *callbackSet) invoke(w toolkit.Widget) {
	cs.mu.Lock()
	fns := make([]func(toolkit.Widget), 0, len(cs.entries))
	for _, fn := range cs.entries {
		fns = append(fns, fn)
	}
	cs.mu.Unlock()
	for _, fn := range fns {
		fn(w)
	}
}

func (cs *callbackSet) len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.entries)
}
