package spinner

import (
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler defers work to the next scheduling tick. The change trigger uses
// it to coalesce a burst of configuration mutations into a single restart:
// everything mutated before the tick fires counts as one batch.
type Scheduler interface {
	Tick(fn func())
}

// TimerScheduler fires ticks after a fixed delay. It is the default
// scheduler; the small delay stands in for the host toolkit's frame tick.
type TimerScheduler struct {
	delay time.Duration
}

// NewTimerScheduler creates a TimerScheduler with the given tick delay.
func NewTimerScheduler(delay time.Duration) *TimerScheduler {
	return &TimerScheduler{delay: delay}
}

// Tick implements Scheduler.
func (s *TimerScheduler) Tick(fn func()) {
	time.AfterFunc(s.delay, fn)
}

// ManualScheduler queues ticks until Advance is called. Tests use it to issue
// several mutations "within one tick" and then observe exactly one restart.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Tick implements Scheduler.
func (s *ManualScheduler) Tick(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, fn)
}

// Advance fires every queued tick.
func (s *ManualScheduler) Advance() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

// Pending returns the number of queued ticks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// restartTrigger collapses any number of Request calls issued before the next
// tick into a single fire.
type restartTrigger struct {
	scheduler Scheduler
	pending   atomic.Bool
	fire      func()
}

func newRestartTrigger(scheduler Scheduler, fire func()) *restartTrigger {
	return &restartTrigger{scheduler: scheduler, fire: fire}
}

// Request schedules a fire on the next tick unless one is already pending.
func (t *restartTrigger) Request() {
	if !t.pending.CompareAndSwap(false, true) {
		return
	}
	t.scheduler.Tick(func() {
		t.pending.Store(false)
		t.fire()
	})
}
