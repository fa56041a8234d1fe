// Package toolkit declares the collaborator surface the spinner behavior core
// drives: the host control, the overlay that displays the options, the widgets
// inside it, and the signal/binding primitives used to observe them. The
// behavior never renders anything itself; everything visual lives behind these
// interfaces.
//
// Widget, Overlay and Control implementations are expected to be reference
// types (pointers), because the behavior tracks widget identity across
// restarts when deciding whether a pooled widget can be reused.
package toolkit

// Descriptor maps widget field names to the values applied to one option
// widget. The order of a descriptor list defines display order.
type Descriptor map[string]any

// Binding is a scoped subscription or forwarding link established during a
// run's setup and released during its cleanup. Release is safe to call more
// than once; the second and later calls are no-ops.
type Binding interface {
	Release()
}

// Signal is a subscribable event source. Subscribe returns a channel that
// receives one value per emission (capacity 1; an emission arriving while a
// previous one is still pending is dropped) and the Binding that removes the
// subscription.
type Signal interface {
	Subscribe() (<-chan struct{}, Binding)
}

// Widget is a single selectable option inside the overlay.
type Widget interface {
	// Apply sets one descriptor field on the widget. Unknown fields return an
	// error, which aborts the setup that was applying them.
	Apply(field string, value any) error

	// SetHeight resizes the widget, used by the height-sync policy.
	SetHeight(height float64)

	// BindRelease registers a callback invoked when the user releases this
	// widget (i.e. picks it).
	BindRelease(fn func(Widget)) Binding
}

// Container is the overlay's content area holding the option widgets.
// Children returns the widgets in the order they were added.
type Container interface {
	Add(w Widget)
	Children() []Widget
	Clear()
	SetSpacing(x, y float64)
	SetPadding(left, top, right, bottom float64)
}

// Overlay is the transient surface that presents the option list.
type Overlay interface {
	Container() Container

	// Open shows the overlay anchored to the host control.
	Open(anchor Control)

	// Dismiss closes the overlay and fires the dismissal signal.
	Dismiss()

	// ForceClose closes the overlay without firing the dismissal signal. Used
	// during cleanup, when the dismissal listeners are already being torn
	// down. Safe to call on an overlay that is not open.
	ForceClose()

	// Select reports that a widget was chosen, firing the selection-chosen
	// callbacks. It does not close the overlay by itself.
	Select(w Widget)

	BindSelect(fn func(Widget)) Binding
	Dismissal() Signal
}

// Control is the host widget the spinner behavior is attached to.
type Control interface {
	// Activation fires when the control is triggered and the overlay should
	// be shown.
	Activation() Signal

	Height() float64
	BindHeight(fn func(height float64)) Binding
}

// WidgetClass constructs option widgets. Name identifies the class; the
// behavior compares names, not runtime types, when deciding whether pooled
// widgets can be reused.
type WidgetClass interface {
	Name() string
	NewWidget() Widget
}

// OverlayClass constructs overlays. Name semantics match WidgetClass.
type OverlayClass interface {
	Name() string
	NewOverlay() Overlay
}
