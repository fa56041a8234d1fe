package spinner

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindleui/spindle/internal/finitestate"
	"github.com/spindleui/spindle/toolkit"
	"github.com/spindleui/spindle/toolkit/registry"
	"github.com/spindleui/spindle/toolkit/toolkittest"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

// harness wires a Behavior to the fake toolkit with a manual scheduler, so
// tests control exactly when a batch of mutations becomes a restart.
type harness struct {
	t          *testing.T
	behavior   *Behavior
	control    *toolkittest.FakeControl
	registry   *registry.Registry
	overlayCls *toolkittest.FakeOverlayClass
	optionCls  *toolkittest.FakeWidgetClass
	scheduler  *ManualScheduler
	cancel     context.CancelFunc
	errCh      chan error
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	control := toolkittest.NewFakeControl(40)
	reg := registry.New()
	overlayCls := &toolkittest.FakeOverlayClass{ClassName: "dropdown"}
	optionCls := &toolkittest.FakeWidgetClass{ClassName: "option"}
	reg.RegisterOverlayClass(overlayCls)
	reg.RegisterWidgetClass(optionCls)

	scheduler := NewManualScheduler()
	behavior, err := New(control,
		WithRegistry(reg),
		WithScheduler(scheduler),
		WithLogHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- behavior.Run(ctx)
	}()

	h := &harness{
		t:          t,
		behavior:   behavior,
		control:    control,
		registry:   reg,
		overlayCls: overlayCls,
		optionCls:  optionCls,
		scheduler:  scheduler,
		cancel:     cancel,
		errCh:      errCh,
	}
	t.Cleanup(h.stop)

	// Run queues one boot tick on start; wait for it so later Advance calls
	// fire a known batch.
	require.Eventually(t, func() bool {
		return scheduler.Pending() >= 1
	}, waitFor, tick, "boot tick never queued")

	return h
}

func (h *harness) stop() {
	h.cancel()
	select {
	case <-h.errCh:
	case <-time.After(waitFor):
		h.t.Error("Behavior did not shut down within timeout")
	}
}

// configure sets classes plus one text descriptor per label.
func (h *harness) configure(labels ...string) {
	h.behavior.SetOverlayClassName("dropdown")
	h.behavior.SetOptionClassName("option")
	h.behavior.SetOptionData(descriptors(labels...))
}

// restart fires the pending tick batch and waits for the loop to reach the
// steady state.
func (h *harness) restart() {
	h.scheduler.Advance()
	h.awaitState(finitestate.StateAwaiting)
}

func (h *harness) awaitState(state string) {
	h.t.Helper()
	require.Eventually(h.t, func() bool {
		return h.behavior.GetState() == state
	}, waitFor, tick, "state never became %s (now %s)", state, h.behavior.GetState())
}

func (h *harness) overlay() *toolkittest.FakeOverlay {
	h.t.Helper()
	overlay := h.overlayCls.Last()
	require.NotNil(h.t, overlay)
	return overlay
}

func (h *harness) children() []toolkit.Widget {
	return h.overlay().Container().Children()
}

func descriptors(labels ...string) []toolkit.Descriptor {
	out := make([]toolkit.Descriptor, 0, len(labels))
	for _, label := range labels {
		out = append(out, toolkit.Descriptor{"text": label})
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates behavior with default options", func(t *testing.T) {
		behavior, err := New(toolkittest.NewFakeControl(40))
		require.NoError(t, err)
		assert.NotNil(t, behavior)
		assert.NotNil(t, behavior.logger)
		assert.NotNil(t, behavior.fsm)
		assert.NotNil(t, behavior.registry)
		assert.Equal(t, context.Background(), behavior.parentCtx)
		assert.Equal(t, finitestate.StateIdle, behavior.GetState())
	})

	t.Run("applies custom options", func(t *testing.T) {
		customLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		reg := registry.New()
		scheduler := NewManualScheduler()

		behavior, err := New(toolkittest.NewFakeControl(40),
			WithLogger(customLogger),
			WithRegistry(reg),
			WithScheduler(scheduler),
		)
		require.NoError(t, err)
		assert.Equal(t, customLogger, behavior.logger)
		assert.Same(t, reg, behavior.Registry())
		assert.Equal(t, scheduler, behavior.scheduler)
	})

	t.Run("rejects nil control", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})
}

func TestBehavior_String(t *testing.T) {
	t.Parallel()
	behavior, err := New(toolkittest.NewFakeControl(40))
	require.NoError(t, err)
	assert.Equal(t, "spinner.Behavior", behavior.String())
}

func TestBehavior_UnconfiguredStaysIdle(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// Boot tick with nothing configured: setup aborts back to idle.
	h.scheduler.Advance()
	require.Eventually(t, func() bool {
		return h.behavior.SetupCount() == 1 &&
			h.behavior.GetState() == finitestate.StateIdle
	}, waitFor, tick)
	assert.Nil(t, h.overlayCls.Last())
	assert.Nil(t, h.behavior.Selection())
}

func TestBehavior_BatchedMutationsRunOneSetup(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// Many mutations within one tick collapse into one restart.
	h.behavior.SetOverlayClassName("dropdown")
	h.behavior.SetOptionClassName("option")
	h.behavior.SetOptionData(descriptors("a"))
	h.behavior.SetOptionData(descriptors("a", "b"))
	h.behavior.SetOptionData(descriptors("a", "b", "c"))
	h.behavior.SetSyncHeight(false)
	h.restart()

	assert.Equal(t, uint64(1), h.behavior.SetupCount())
	assert.Len(t, h.children(), 3)
	assert.True(t, h.behavior.IsRunning())
}

func TestBehavior_OpenCloseCycle(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.configure("a", "b")
	h.restart()

	overlay := h.overlay()
	assert.Equal(t, 0, overlay.OpenCount())

	h.control.Activate()
	h.awaitState(finitestate.StateOpen)
	assert.True(t, overlay.IsOpen())
	assert.Equal(t, 1, overlay.OpenCount())
	assert.Same(t, h.control, overlay.LastAnchor())

	overlay.Dismiss()
	h.awaitState(finitestate.StateAwaiting)
	assert.Equal(t, 1, overlay.OpenCount())

	// A fresh activation opens again.
	h.control.Activate()
	h.awaitState(finitestate.StateOpen)
	assert.Equal(t, 2, overlay.OpenCount())
}

func TestBehavior_SelectionViaRelease(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.configure("a", "b", "c")
	h.restart()

	h.control.Activate()
	h.awaitState(finitestate.StateOpen)

	children := h.children()
	require.Len(t, children, 3)
	children[1].(*toolkittest.FakeWidget).Release()

	h.awaitState(finitestate.StateAwaiting)
	assert.Same(t, children[1], h.behavior.Selection())
	assert.False(t, h.overlay().IsOpen())
}

func TestBehavior_DescriptorFieldsApplied(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.behavior.SetOverlayClassName("dropdown")
	h.behavior.SetOptionClassName("option")
	h.behavior.SetOptionData([]toolkit.Descriptor{
		{"text": "alpha", "badge": "new"},
		{"text": "beta"},
	})
	h.restart()

	children := h.children()
	require.Len(t, children, 2)
	first := children[0].(*toolkittest.FakeWidget)
	assert.Equal(t, "alpha", first.Field("text"))
	assert.Equal(t, "new", first.Field("badge"))
	assert.Equal(t, "beta", children[1].(*toolkittest.FakeWidget).Field("text"))
}

func TestBehavior_PoolReuse(t *testing.T) {
	t.Parallel()

	t.Run("same class preserves widget identity", func(t *testing.T) {
		h := newHarness(t)
		h.configure("a", "b", "c")
		h.restart()

		before := h.children()
		require.Len(t, before, 3)
		assert.Equal(t, 3, h.optionCls.Created())

		h.behavior.SetOptionData(descriptors("x", "y", "z"))
		h.scheduler.Advance()
		require.Eventually(t, func() bool {
			return h.behavior.SetupCount() == 2 &&
				h.behavior.GetState() == finitestate.StateAwaiting
		}, waitFor, tick)

		after := h.children()
		require.Len(t, after, 3)
		for i := range before {
			assert.Same(t, before[i], after[i], "widget %d was not reused", i)
		}
		assert.Equal(t, 3, h.optionCls.Created(), "no new widgets should be constructed")
		assert.Equal(t, "x", after[0].(*toolkittest.FakeWidget).Field("text"))
	})

	t.Run("shrinking descriptor count reuses a prefix", func(t *testing.T) {
		h := newHarness(t)
		h.configure("a", "b", "c")
		h.restart()
		before := h.children()

		h.behavior.SetOptionData(descriptors("a", "b"))
		h.scheduler.Advance()
		require.Eventually(t, func() bool {
			return h.behavior.SetupCount() == 2 &&
				h.behavior.GetState() == finitestate.StateAwaiting
		}, waitFor, tick)

		after := h.children()
		require.Len(t, after, 2)
		assert.Same(t, before[0], after[0])
		assert.Same(t, before[1], after[1])
		assert.Equal(t, 3, h.optionCls.Created())
	})

	t.Run("class change discards the whole pool", func(t *testing.T) {
		h := newHarness(t)
		h.configure("a", "b")
		h.restart()
		before := h.children()

		other := &toolkittest.FakeWidgetClass{ClassName: "image-option"}
		h.registry.RegisterWidgetClass(other)
		h.behavior.SetOptionClassName("image-option")
		h.scheduler.Advance()
		require.Eventually(t, func() bool {
			return h.behavior.SetupCount() == 2 &&
				h.behavior.GetState() == finitestate.StateAwaiting
		}, waitFor, tick)

		after := h.children()
		require.Len(t, after, 2)
		for _, w := range after {
			for _, old := range before {
				assert.NotSame(t, old, w)
			}
		}
		assert.Equal(t, 2, other.Created())
	})

	t.Run("overlay reused across restarts", func(t *testing.T) {
		h := newHarness(t)
		h.configure("a")
		h.restart()
		assert.Equal(t, 1, h.overlayCls.Created())

		h.behavior.SetOptionData(descriptors("b"))
		h.scheduler.Advance()
		require.Eventually(t, func() bool {
			return h.behavior.SetupCount() == 2 &&
				h.behavior.GetState() == finitestate.StateAwaiting
		}, waitFor, tick)
		assert.Equal(t, 1, h.overlayCls.Created())
	})
}

func TestBehavior_AutoSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		index int
		want  int // position in the option list, -1 for empty selection
	}{
		{"index 0 selects the last option", 0, 2},
		{"index 1 selects the middle option", 1, 1},
		{"index 2 selects the first option", 2, 0},
		{"out of range clears the selection", 5, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.configure("a", "b", "c")
			h.behavior.SetAutoSelect(tc.index)
			h.restart()

			children := h.children()
			require.Len(t, children, 3)
			if tc.want < 0 {
				assert.Nil(t, h.behavior.Selection())
			} else {
				assert.Same(t, children[tc.want], h.behavior.Selection())
			}
		})
	}

	t.Run("no auto-select leaves selection empty", func(t *testing.T) {
		h := newHarness(t)
		h.configure("a", "b")
		h.restart()
		assert.Nil(t, h.behavior.Selection())
	})
}

func TestBehavior_SelectionStability(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.configure("a", "b", "c")
	h.restart()

	h.control.Activate()
	h.awaitState(finitestate.StateOpen)
	children := h.children()
	children[1].(*toolkittest.FakeWidget).Release()
	h.awaitState(finitestate.StateAwaiting)
	require.Same(t, children[1], h.behavior.Selection())

	// Auto-select would pick the last option; the surviving selection wins.
	h.behavior.SetAutoSelect(0)
	h.scheduler.Advance()
	require.Eventually(t, func() bool {
		return h.behavior.SetupCount() == 2 &&
			h.behavior.GetState() == finitestate.StateAwaiting
	}, waitFor, tick)

	assert.Same(t, children[1], h.behavior.Selection())
}

func TestBehavior_AbortMissingOverlayClass(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// Option class alone is not enough; the loop must not start.
	h.behavior.SetOptionClassName("option")
	h.behavior.SetOptionData(descriptors("a", "b"))
	h.scheduler.Advance()
	require.Eventually(t, func() bool {
		return h.behavior.SetupCount() == 1 &&
			h.behavior.GetState() == finitestate.StateIdle
	}, waitFor, tick)

	assert.Equal(t, 0, h.overlayCls.Created())
	assert.Nil(t, h.behavior.Selection())

	// Activation goes nowhere while unconfigured.
	h.control.Activate()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, finitestate.StateIdle, h.behavior.GetState())

	// Configuring the overlay class brings the loop up.
	h.behavior.SetOverlayClassName("dropdown")
	h.scheduler.Advance()
	h.awaitState(finitestate.StateAwaiting)
	assert.Equal(t, 1, h.overlayCls.Created())
}

func TestBehavior_AbortMissingOptionClass(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.behavior.SetOverlayClassName("dropdown")
	h.behavior.SetOptionData(descriptors("a"))
	h.scheduler.Advance()
	require.Eventually(t, func() bool {
		return h.behavior.SetupCount() == 1 &&
			h.behavior.GetState() == finitestate.StateIdle
	}, waitFor, tick)

	// The overlay was already built; it parks in the pool for the next run.
	assert.Equal(t, 1, h.overlayCls.Created())

	h.behavior.SetOptionClassName("option")
	h.scheduler.Advance()
	h.awaitState(finitestate.StateAwaiting)
	assert.Equal(t, 1, h.overlayCls.Created(), "pooled overlay should be reused")
	assert.Len(t, h.children(), 1)
}

func TestBehavior_HeightSync(t *testing.T) {
	t.Parallel()

	t.Run("applies and tracks control height", func(t *testing.T) {
		h := newHarness(t)
		h.configure("a", "b")
		h.behavior.SetSyncHeight(true)
		h.restart()

		for _, w := range h.children() {
			assert.InDelta(t, 40.0, w.(*toolkittest.FakeWidget).Height(), 0.001)
		}

		h.control.SetHeight(63)
		for _, w := range h.children() {
			assert.InDelta(t, 63.0, w.(*toolkittest.FakeWidget).Height(), 0.001)
		}
	})

	t.Run("disabled leaves heights alone", func(t *testing.T) {
		h := newHarness(t)
		h.configure("a")
		h.restart()

		assert.Equal(t, 0, h.control.ActiveHeightBindings())
		h.control.SetHeight(63)
		assert.InDelta(t, 0.0, h.children()[0].(*toolkittest.FakeWidget).Height(), 0.001)
	})
}

func TestBehavior_SpacingPaddingForwardLive(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.behavior.SetSpacing(4, 2)
	h.behavior.SetPadding(8, 4, 8, 4)
	h.configure("a")
	h.restart()

	container := h.overlay().Container().(*toolkittest.FakeContainer)
	assert.Equal(t, [2]float64{4, 2}, container.Spacing())
	assert.Equal(t, [4]float64{8, 4, 8, 4}, container.Padding())

	// Mutations while the loop is live forward without a restart.
	setups := h.behavior.SetupCount()
	h.behavior.SetSpacing(6, 3)
	h.behavior.SetPadding(1, 2, 3, 4)
	assert.Equal(t, [2]float64{6, 3}, container.Spacing())
	assert.Equal(t, [4]float64{1, 2, 3, 4}, container.Padding())
	assert.Equal(t, setups, h.behavior.SetupCount())

	// A reused overlay gets the mutated values reapplied on the next setup.
	h.behavior.Reload()
	h.scheduler.Advance()
	require.Eventually(t, func() bool {
		return h.behavior.SetupCount() == setups+1 &&
			h.behavior.GetState() == finitestate.StateAwaiting
	}, waitFor, tick)
	require.Equal(t, 1, h.overlayCls.Created())
	assert.Equal(t, [2]float64{6, 3}, container.Spacing())
	assert.Equal(t, [4]float64{1, 2, 3, 4}, container.Padding())
}

func TestBehavior_PlaybackLastRun(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	var buf bytes.Buffer
	require.NoError(t, h.behavior.PlaybackLastRun(slog.NewTextHandler(&buf, nil)))
	assert.Empty(t, buf.String(), "no run has happened yet")

	h.configure("a")
	h.restart()

	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	require.NoError(t, h.behavior.PlaybackLastRun(handler))
	out := buf.String()
	assert.Contains(t, out, "run_id")
	assert.Contains(t, out, "Setup complete")
}

func TestBehavior_ApplyErrorAbortsSetup(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	strict := &toolkittest.FakeWidgetClass{ClassName: "strict-option", RejectField: "badge"}
	h.registry.RegisterWidgetClass(strict)

	h.behavior.SetOverlayClassName("dropdown")
	h.behavior.SetOptionClassName("strict-option")
	h.behavior.SetOptionData([]toolkit.Descriptor{
		{"text": "ok"},
		{"badge": "boom"},
	})
	h.scheduler.Advance()
	require.Eventually(t, func() bool {
		return h.behavior.SetupCount() == 1 &&
			h.behavior.GetState() == finitestate.StateIdle
	}, waitFor, tick)

	assert.Nil(t, h.behavior.Selection())

	// A corrected descriptor list recovers on the next restart.
	h.behavior.SetOptionData([]toolkit.Descriptor{{"text": "ok"}})
	h.scheduler.Advance()
	h.awaitState(finitestate.StateAwaiting)
	assert.Len(t, h.children(), 1)
}

func TestBehavior_Reload(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.configure("a")
	h.restart()

	h.behavior.Reload()
	h.scheduler.Advance()
	require.Eventually(t, func() bool {
		return h.behavior.SetupCount() == 2 &&
			h.behavior.GetState() == finitestate.StateAwaiting
	}, waitFor, tick)
}

func TestBehavior_CleanupReleasesAllBindings(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.configure("a", "b")
	h.behavior.SetSyncHeight(true)
	h.restart()

	overlay := h.overlay()
	children := h.children()
	assert.Equal(t, 1, h.control.ActivationSubscribers())
	assert.Equal(t, 1, overlay.DismissalSubscribers())
	assert.Equal(t, 1, overlay.ActiveSelectBindings())
	assert.Equal(t, 1, h.control.ActiveHeightBindings())
	for _, w := range children {
		assert.Equal(t, 1, w.(*toolkittest.FakeWidget).ActiveReleaseBindings())
	}

	h.cancel()
	require.Eventually(t, func() bool {
		return h.behavior.GetState() == finitestate.StateStopped
	}, waitFor, tick)

	assert.Equal(t, 0, h.control.ActivationSubscribers())
	assert.Equal(t, 0, overlay.DismissalSubscribers())
	assert.Equal(t, 0, overlay.ActiveSelectBindings())
	assert.Equal(t, 0, h.control.ActiveHeightBindings())
	for _, w := range children {
		assert.Equal(t, 0, w.(*toolkittest.FakeWidget).ActiveReleaseBindings())
	}
	assert.False(t, overlay.IsOpen())
	assert.Empty(t, overlay.Container().Children())
}

func TestBehavior_CleanupRunsBeforeNextSetup(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.configure("a", "b", "c")
	h.restart()
	firstOverlay := h.overlay()

	// Restart while the overlay is open: the new run must see the old run's
	// final state, not a half-open overlay.
	h.control.Activate()
	h.awaitState(finitestate.StateOpen)

	h.behavior.SetOptionData(descriptors("x", "y"))
	h.scheduler.Advance()
	require.Eventually(t, func() bool {
		return h.behavior.SetupCount() == 2 &&
			h.behavior.GetState() == finitestate.StateAwaiting
	}, waitFor, tick)

	assert.False(t, firstOverlay.IsOpen(), "cleanup must force the overlay closed")
	assert.Len(t, h.children(), 2)
	assert.Equal(t, 3, h.optionCls.Created(), "new setup must consume the old run's pooled widgets")
}
