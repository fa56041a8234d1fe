package toolkittest

import (
	"sync"
	"sync/atomic"

	"github.com/spindleui/spindle/toolkit"
)

var (
	_ toolkit.OverlayClass = (*FakeOverlayClass)(nil)
	_ toolkit.Overlay      = (*FakeOverlay)(nil)
	_ toolkit.Container    = (*FakeContainer)(nil)
)

// FakeOverlayClass constructs FakeOverlays and remembers the most recent one.
type FakeOverlayClass struct {
	ClassName string

	created atomic.Int64
	last    atomic.Pointer[FakeOverlay]
}

// Name implements toolkit.OverlayClass.
func (c *FakeOverlayClass) Name() string { return c.ClassName }

// NewOverlay implements toolkit.OverlayClass.
func (c *FakeOverlayClass) NewOverlay() toolkit.Overlay {
	c.created.Add(1)
	overlay := &FakeOverlay{
		class:     c.ClassName,
		container: &FakeContainer{},
		dismissal: NewFakeSignal(),
	}
	c.last.Store(overlay)
	return overlay
}

// Created returns how many overlays this class has constructed.
func (c *FakeOverlayClass) Created() int { return int(c.created.Load()) }

// Last returns the most recently constructed overlay, or nil.
func (c *FakeOverlayClass) Last() *FakeOverlay { return c.last.Load() }

// FakeOverlay records open/close activity and selection callbacks.
type FakeOverlay struct {
	class     string
	container *FakeContainer
	dismissal *FakeSignal
	selected  callbackSet

	mu         sync.Mutex
	open       bool
	openCount  int
	lastAnchor toolkit.Control
}

// Container implements toolkit.Overlay.
func (o *FakeOverlay) Container() toolkit.Container { return o.container }

// Open implements toolkit.Overlay.
func (o *FakeOverlay) Open(anchor toolkit.Control) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open = true
	o.openCount++
	o.lastAnchor = anchor
}

// Dismiss implements toolkit.Overlay. Dismissing an overlay that is not open
// is a no-op.
func (o *FakeOverlay) Dismiss() {
	o.mu.Lock()
	wasOpen := o.open
	o.open = false
	o.mu.Unlock()
	if wasOpen {
		o.dismissal.Emit()
	}
}

// ForceClose implements toolkit.Overlay. It closes without firing the
// dismissal signal.
func (o *FakeOverlay) ForceClose() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open = false
}

// Select implements toolkit.Overlay.
func (o *FakeOverlay) Select(w toolkit.Widget) {
	o.selected.invoke(w)
}

// BindSelect implements toolkit.Overlay.
func (o *FakeOverlay) BindSelect(fn func(toolkit.Widget)) toolkit.Binding {
	return o.selected.add(fn)
}

// Dismissal implements toolkit.Overlay.
func (o *FakeOverlay) Dismissal() toolkit.Signal { return o.dismissal }

// IsOpen reports whether the overlay is currently shown.
func (o *FakeOverlay) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

// OpenCount returns how many times Open was invoked.
func (o *FakeOverlay) OpenCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.openCount
}

// LastAnchor returns the control the overlay was most recently anchored to.
func (o *FakeOverlay) LastAnchor() toolkit.Control {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastAnchor
}

// ActiveSelectBindings returns the number of unreleased select bindings.
func (o *FakeOverlay) ActiveSelectBindings() int { return o.selected.len() }

// DismissalSubscribers returns the number of unreleased dismissal
// subscriptions.
func (o *FakeOverlay) DismissalSubscribers() int { return o.dismissal.ActiveSubscribers() }

// FakeContainer implements toolkit.Container over a plain slice.
type FakeContainer struct {
	mu       sync.Mutex
	children []toolkit.Widget
	spacing  [2]float64
	padding  [4]float64
}

// Add implements toolkit.Container.
func (c *FakeContainer) Add(w toolkit.Widget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = append(c.children, w)
}

// Children implements toolkit.Container, returning widgets in add order.
func (c *FakeContainer) Children() []toolkit.Widget {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]toolkit.Widget, len(c.children))
	copy(out, c.children)
	return out
}

// Clear implements toolkit.Container.
func (c *FakeContainer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = nil
}

// SetSpacing implements toolkit.Container.
func (c *FakeContainer) SetSpacing(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spacing = [2]float64{x, y}
}

// SetPadding implements toolkit.Container.
func (c *FakeContainer) SetPadding(left, top, right, bottom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.padding = [4]float64{left, top, right, bottom}
}

// Spacing returns the last spacing applied.
func (c *FakeContainer) Spacing() [2]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spacing
}

// Padding returns the last padding applied.
func (c *FakeContainer) Padding() [4]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.padding
}
