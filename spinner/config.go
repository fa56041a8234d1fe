package spinner

import (
	"github.com/spindleui/spindle/toolkit"
	"github.com/spindleui/spindle/toolkit/registry"
)

// widgetClassRef is an option class configured either as a value or as a
// registered name. A direct value wins over a name.
type widgetClassRef struct {
	cls  toolkit.WidgetClass
	name string
}

func (ref widgetClassRef) resolve(reg *registry.Registry) (toolkit.WidgetClass, bool) {
	if ref.cls != nil {
		return ref.cls, true
	}
	if ref.name == "" || reg == nil {
		return nil, false
	}
	return reg.WidgetClass(ref.name)
}

type overlayClassRef struct {
	cls  toolkit.OverlayClass
	name string
}

func (ref overlayClassRef) resolve(reg *registry.Registry) (toolkit.OverlayClass, bool) {
	if ref.cls != nil {
		return ref.cls, true
	}
	if ref.name == "" || reg == nil {
		return nil, false
	}
	return reg.OverlayClass(ref.name)
}

// config is the full set of inputs controlling a run. It is owned by the
// Behavior and snapshotted at the start of each setup.
type config struct {
	optionData    []toolkit.Descriptor
	optionClass   widgetClassRef
	overlayClass  overlayClassRef
	spacing       [2]float64
	padding       [4]float64
	autoSelect    int
	hasAutoSelect bool
	syncHeight    bool
}

// SetOptionData replaces the descriptor list and schedules a restart.
func (b *Behavior) SetOptionData(data []toolkit.Descriptor) {
	b.cfgMu.Lock()
	b.cfg.optionData = append([]toolkit.Descriptor(nil), data...)
	b.cfgMu.Unlock()
	b.trigger.Request()
}

// SetOptionClass sets the option widget class directly and schedules a
// restart.
func (b *Behavior) SetOptionClass(c toolkit.WidgetClass) {
	b.cfgMu.Lock()
	b.cfg.optionClass = widgetClassRef{cls: c}
	b.cfgMu.Unlock()
	b.trigger.Request()
}

// SetOptionClassName sets the option widget class by registered name and
// schedules a restart. An empty name clears the class.
func (b *Behavior) SetOptionClassName(name string) {
	b.cfgMu.Lock()
	b.cfg.optionClass = widgetClassRef{name: name}
	b.cfgMu.Unlock()
	b.trigger.Request()
}

// SetOverlayClass sets the overlay class directly and schedules a restart.
func (b *Behavior) SetOverlayClass(c toolkit.OverlayClass) {
	b.cfgMu.Lock()
	b.cfg.overlayClass = overlayClassRef{cls: c}
	b.cfgMu.Unlock()
	b.trigger.Request()
}

// SetOverlayClassName sets the overlay class by registered name and schedules
// a restart. An empty name clears the class.
func (b *Behavior) SetOverlayClassName(name string) {
	b.cfgMu.Lock()
	b.cfg.overlayClass = overlayClassRef{name: name}
	b.cfgMu.Unlock()
	b.trigger.Request()
}

// SetAutoSelect configures the auto-select index and schedules a restart. The
// index counts from the end of the option list: 0 selects the last option.
func (b *Behavior) SetAutoSelect(index int) {
	b.cfgMu.Lock()
	b.cfg.autoSelect = index
	b.cfg.hasAutoSelect = true
	b.cfgMu.Unlock()
	b.trigger.Request()
}

// ClearAutoSelect removes the auto-select index and schedules a restart.
func (b *Behavior) ClearAutoSelect() {
	b.cfgMu.Lock()
	b.cfg.autoSelect = 0
	b.cfg.hasAutoSelect = false
	b.cfgMu.Unlock()
	b.trigger.Request()
}

// SetSyncHeight toggles the height-sync policy and schedules a restart.
func (b *Behavior) SetSyncHeight(sync bool) {
	b.cfgMu.Lock()
	b.cfg.syncHeight = sync
	b.cfgMu.Unlock()
	b.trigger.Request()
}

// SetSpacing changes the spacing between option widgets. The change forwards
// live to the active overlay's container; no restart is scheduled.
func (b *Behavior) SetSpacing(x, y float64) {
	b.cfgMu.Lock()
	b.cfg.spacing = [2]float64{x, y}
	b.cfgMu.Unlock()

	if c := b.liveContainerRef(); c != nil {
		c.SetSpacing(x, y)
	}
}

// SetPadding changes the container padding. The change forwards live to the
// active overlay's container; no restart is scheduled.
func (b *Behavior) SetPadding(left, top, right, bottom float64) {
	b.cfgMu.Lock()
	b.cfg.padding = [4]float64{left, top, right, bottom}
	b.cfgMu.Unlock()

	if c := b.liveContainerRef(); c != nil {
		c.SetPadding(left, top, right, bottom)
	}
}

// snapshotConfig copies the configuration for one run.
func (b *Behavior) snapshotConfig() config {
	b.cfgMu.Lock()
	defer b.cfgMu.Unlock()
	cfg := b.cfg
	cfg.optionData = append([]toolkit.Descriptor(nil), b.cfg.optionData...)
	return cfg
}
