// Package spinner implements the behavioral core of a spinner-like selector:
// a restartable, cancellable control loop that builds an overlay of option
// widgets from descriptor data, opens it on activation, and records which
// option was chosen. Rendering, layout and input handling stay behind the
// toolkit interfaces.
package spinner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/spindleui/spindle/internal/finitestate"
	"github.com/spindleui/spindle/toolkit"
	"github.com/spindleui/spindle/toolkit/registry"
)

var (
	_ supervisor.Runnable   = (*Behavior)(nil)
	_ supervisor.Reloadable = (*Behavior)(nil)
	_ supervisor.Stateable  = (*Behavior)(nil)
)

// defaultTickDelay approximates one frame of a 60 fps toolkit scheduler.
const defaultTickDelay = 16 * time.Millisecond

// Behavior is the spinner control loop attached to one host control. All of
// its configuration may be mutated at any time; mutations are coalesced per
// scheduling tick into a single restart that tears the running loop down,
// returns its resources to the pool, and sets up again.
type Behavior struct {
	control   toolkit.Control
	registry  *registry.Registry
	scheduler Scheduler
	trigger   *restartTrigger

	logger *slog.Logger
	fsm    finitestate.Machine

	cfgMu sync.Mutex
	cfg   config

	restartCh chan struct{}
	pool      resourcePool
	setups    atomic.Uint64

	selMu     sync.RWMutex
	selection toolkit.Widget

	liveMu        sync.Mutex
	liveContainer toolkit.Container

	lastRun atomic.Pointer[run]

	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context
}

// New creates a Behavior attached to the given host control.
func New(control toolkit.Control, opts ...Option) (*Behavior, error) {
	if control == nil {
		return nil, fmt.Errorf("control must not be nil")
	}

	b := &Behavior{
		control:   control,
		registry:  registry.New(),
		logger:    slog.Default().WithGroup("spinner.Behavior"),
		restartCh: make(chan struct{}, 1),
		parentCtx: context.Background(),
	}

	// Apply functional options
	for _, opt := range opts {
		opt(b)
	}

	if b.scheduler == nil {
		b.scheduler = NewTimerScheduler(defaultTickDelay)
	}
	b.trigger = newRestartTrigger(b.scheduler, b.requestRestart)

	// Initialize the finite state machine
	fsmLogger := b.logger.WithGroup("fsm")
	machine, err := finitestate.New(fsmLogger.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	b.fsm = machine

	return b, nil
}

// String implements the supervisor.Runnable interface
func (b *Behavior) String() string {
	return "spinner.Behavior"
}

// Run implements the supervisor.Runnable interface. It drives the restart
// loop on a single goroutine: every run's cleanup completes before the next
// run's setup begins, which is what keeps pooled widget state consistent
// across restarts.
func (b *Behavior) Run(ctx context.Context) error {
	b.logger.Debug("Starting Behavior")
	b.runCtx, b.runCancel = context.WithCancel(ctx)

	// Boot with whatever configuration is already present.
	b.trigger.Request()

	for {
		select {
		case <-b.parentCtx.Done():
			b.logger.Debug("Parent context canceled")
			return b.shutdown()
		case <-b.runCtx.Done():
			b.logger.Debug("Run context canceled")
			return b.shutdown()
		case <-b.restartCh:
		}

		if err := b.runOnce(b.runCtx); err != nil {
			if stateErr := b.fsm.Transition(finitestate.StateError); stateErr != nil {
				b.logger.Error("Failed to transition to error state", "error", stateErr)
			}
			return err
		}
	}
}

// Stop implements the supervisor.Runnable interface
func (b *Behavior) Stop() {
	b.logger.Debug("Stopping Behavior")
	if b.runCancel != nil {
		b.runCancel()
	}
}

// Reload implements the supervisor.Reloadable interface. It is equivalent to
// a configuration mutation: the running loop restarts on the next tick.
func (b *Behavior) Reload() {
	b.logger.Debug("Reload requested")
	b.trigger.Request()
}

// Registry returns the class registry the behavior resolves names through.
func (b *Behavior) Registry() *registry.Registry {
	return b.registry
}

// PlaybackLastRun replays the log records of the most recent run to the given
// handler. It returns nil if no run has happened yet.
func (b *Behavior) PlaybackLastRun(handler slog.Handler) error {
	r := b.lastRun.Load()
	if r == nil {
		return nil
	}
	return r.collector.PlayLogs(handler)
}

// shutdown drains the terminal transition. The interrupted run, if any, has
// already cleaned up by the time this is reached.
func (b *Behavior) shutdown() error {
	if err := b.fsm.Transition(finitestate.StateStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	b.logger.Info("Behavior shut down")
	return nil
}

// requestRestart pushes one restart token. A token already pending absorbs
// the request; the loop consumes at most one per run.
func (b *Behavior) requestRestart() {
	select {
	case b.restartCh <- struct{}{}:
	default:
	}
}

func (b *Behavior) setLiveContainer(c toolkit.Container) {
	b.liveMu.Lock()
	defer b.liveMu.Unlock()
	b.liveContainer = c
}

func (b *Behavior) liveContainerRef() toolkit.Container {
	b.liveMu.Lock()
	defer b.liveMu.Unlock()
	return b.liveContainer
}
