package spinner

import (
	"context"
	"log/slog"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
	"github.com/spindleui/spindle/internal/finitestate"
	"github.com/spindleui/spindle/toolkit"
)

// run holds the state of one pass through the control loop: setup, steady
// state, cleanup. Every binding created during setup is collected in bindings
// and released 1:1 during cleanup, so no subscription outlives the run.
type run struct {
	id        uuid.UUID
	logger    *slog.Logger
	collector *loglater.LogCollector

	overlay      toolkit.Overlay
	overlayClass string

	// widgetClass stays empty until setup reaches the option phase; cleanup
	// leaves the pooled widget set alone for runs that aborted before it.
	widgetClass string

	bindings []toolkit.Binding
}

func (b *Behavior) newRun() *run {
	id := uuid.Must(uuid.NewV6())
	collector := loglater.NewLogCollector(b.logger.Handler())
	return &run{
		id:        id,
		logger:    slog.New(collector).With("run_id", id),
		collector: collector,
	}
}

// bind records a binding for release during cleanup.
func (r *run) bind(binding toolkit.Binding) {
	r.bindings = append(r.bindings, binding)
}

// runOnce executes one full run. It returns when the run is interrupted by a
// restart request or context cancellation, or when setup aborts. A non-nil
// error means the state machine itself failed and the behavior cannot
// continue.
func (b *Behavior) runOnce(ctx context.Context) error {
	if err := b.fsm.Transition(finitestate.StateSettingUp); err != nil {
		return err
	}
	b.setups.Add(1)

	cfg := b.snapshotConfig()
	r := b.newRun()
	b.lastRun.Store(r)

	// Overlay class resolution happens before any resources are touched, so
	// a missing class is a pure no-op exit back to idle.
	overlayClass, ok := cfg.overlayClass.resolve(b.registry)
	if !ok {
		r.logger.Debug("No overlay class configured, loop not started")
		return b.fsm.Transition(finitestate.StateIdle)
	}

	b.buildOverlay(r, overlayClass, cfg)
	defer b.cleanup(r)

	optionClass, ok := cfg.optionClass.resolve(b.registry)
	if !ok {
		r.logger.Debug("No option class configured, loop not started")
		return nil
	}

	if !b.buildOptions(r, optionClass, cfg) {
		return nil
	}

	container := r.overlay.Container()
	if cfg.syncHeight {
		b.bindHeightSync(r, container)
	}

	b.applySelectionPolicy(container.Children(), cfg)

	// Map the overlay's selection-chosen signal to "record and dismiss".
	overlay := r.overlay
	r.bind(overlay.BindSelect(func(w toolkit.Widget) {
		b.setSelection(w)
		overlay.Dismiss()
	}))

	activationCh, activationBind := b.control.Activation().Subscribe()
	r.bind(activationBind)
	dismissalCh, dismissalBind := overlay.Dismissal().Subscribe()
	r.bind(dismissalBind)

	r.logger.Debug("Setup complete", "options", len(container.Children()))

	// Steady state: wait for activation, open, wait for dismissal, repeat.
	// Stale activations (emitted while the overlay was open) are dropped
	// before the state flips back to awaiting, so an activation arriving
	// after the flip is never lost.
	for {
		drain(activationCh)
		if err := b.fsm.Transition(finitestate.StateAwaiting); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-b.restartCh:
			b.requestRestart()
			return nil
		case <-activationCh:
		}

		drain(dismissalCh)
		overlay.Open(b.control)
		if err := b.fsm.Transition(finitestate.StateOpen); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-b.restartCh:
			b.requestRestart()
			return nil
		case <-dismissalCh:
		}
	}
}

// cleanup tears one run down. It always executes to completion, whichever
// state the run was interrupted in: bindings are released, the overlay and
// its children go back to the pool, and the overlay is forced closed without
// firing dismissal side effects.
func (b *Behavior) cleanup(r *run) {
	if !b.fsm.TransitionBool(finitestate.StateCleaningUp) {
		b.logger.Error("Failed to transition to cleaning-up state",
			"state", b.fsm.GetState())
	}

	// Release in reverse creation order, mirroring setup 1:1.
	for i := len(r.bindings) - 1; i >= 0; i-- {
		r.bindings[i].Release()
	}
	r.bindings = nil
	b.setLiveContainer(nil)

	container := r.overlay.Container()
	if r.widgetClass != "" {
		b.pool.storeWidgets(container.Children(), r.widgetClass)
	}
	container.Clear()
	b.pool.storeOverlay(r.overlay, r.overlayClass)
	r.overlay.ForceClose()

	if err := b.fsm.Transition(finitestate.StateIdle); err != nil {
		b.logger.Error("Failed to transition to idle state", "error", err)
	}
	r.logger.Debug("Cleanup complete")
}

// drain empties a pending event so stale emissions from before this wait
// cannot satisfy it.
func drain(ch <-chan struct{}) {
	select {
	case <-ch:
	default:
	}
}
