package spinner

import (
	"github.com/spindleui/spindle/toolkit"
)

// buildOverlay produces the run's overlay, reusing the pooled instance when
// its class matches. Spacing and padding are applied and linked forward every
// setup, including for a reused overlay, so values mutated while idle take
// effect; the link is released in cleanup.
func (b *Behavior) buildOverlay(r *run, class toolkit.OverlayClass, cfg config) {
	overlay := b.pool.takeOverlay(class.Name())
	if overlay == nil {
		overlay = class.NewOverlay()
		r.logger.Debug("Constructed overlay", "class", class.Name())
	} else {
		r.logger.Debug("Reusing pooled overlay", "class", class.Name())
	}
	r.overlay = overlay
	r.overlayClass = class.Name()

	container := overlay.Container()
	container.SetSpacing(cfg.spacing[0], cfg.spacing[1])
	container.SetPadding(cfg.padding[0], cfg.padding[1], cfg.padding[2], cfg.padding[3])
	b.setLiveContainer(container)
}

// buildOptions populates the overlay with one widget per descriptor. Pooled
// widgets of the matching class are drained first, in order; additional
// widgets are constructed on demand. Excess pooled widgets are simply not
// reused. Returns false if applying a descriptor field failed, which aborts
// the setup.
func (b *Behavior) buildOptions(r *run, class toolkit.WidgetClass, cfg config) bool {
	r.widgetClass = class.Name()
	pooled := b.pool.takeWidgets(class.Name())
	container := r.overlay.Container()
	overlay := r.overlay

	for i, desc := range cfg.optionData {
		var w toolkit.Widget
		if i < len(pooled) {
			w = pooled[i]
		} else {
			w = class.NewWidget()
		}

		for field, value := range desc {
			if err := w.Apply(field, value); err != nil {
				r.logger.Error("Failed to apply option field",
					"option", i, "field", field, "error", err)
				return false
			}
		}

		r.bind(w.BindRelease(func(w toolkit.Widget) {
			overlay.Select(w)
		}))
		container.Add(w)
	}
	return true
}

// bindHeightSync applies the control's height to every option widget now and
// keeps doing so while the run lives.
func (b *Behavior) bindHeightSync(r *run, container toolkit.Container) {
	apply := func(height float64) {
		for _, w := range container.Children() {
			w.SetHeight(height)
		}
	}
	apply(b.control.Height())
	r.bind(b.control.BindHeight(apply))
}
