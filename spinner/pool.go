package spinner

import "github.com/spindleui/spindle/toolkit"

// resourcePool carries the overlay and the option widgets from one run to the
// next so a restart can reuse them instead of reallocating. Entries are
// tagged with the name of the class that produced them; a take with a
// different class name is a cache miss that discards the entry.
//
// The pool is written only during cleanup and read only during the following
// setup. Setup of run N+1 cannot begin before cleanup of run N has finished,
// so no locking is needed.
type resourcePool struct {
	overlay      toolkit.Overlay
	overlayClass string
	widgets      []toolkit.Widget
	widgetClass  string
}

// takeOverlay removes and returns the pooled overlay if it was produced by
// the named class, or nil on a class mismatch or empty pool.
func (p *resourcePool) takeOverlay(class string) toolkit.Overlay {
	ov := p.overlay
	cls := p.overlayClass
	p.overlay = nil
	p.overlayClass = ""
	if ov == nil || cls != class {
		return nil
	}
	return ov
}

func (p *resourcePool) storeOverlay(ov toolkit.Overlay, class string) {
	p.overlay = ov
	p.overlayClass = class
}

// takeWidgets removes and returns the pooled widgets if they were produced by
// the named class. Reuse is all-or-nothing: a class mismatch discards the
// whole set, never mixing classes within one run.
func (p *resourcePool) takeWidgets(class string) []toolkit.Widget {
	ws := p.widgets
	cls := p.widgetClass
	p.widgets = nil
	p.widgetClass = ""
	if cls != class {
		return nil
	}
	return ws
}

func (p *resourcePool) storeWidgets(ws []toolkit.Widget, class string) {
	p.widgets = ws
	p.widgetClass = class
}
