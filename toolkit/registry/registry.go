// Package registry maps class names to widget and overlay classes. The
// spinner behavior resolves by-name configuration through a Registry instead
// of any global lookup.
package registry

import (
	"sync"

	"github.com/spindleui/spindle/toolkit"
)

// Registry is a concurrency-safe name-to-class lookup table.
type Registry struct {
	widgets  map[string]toolkit.WidgetClass
	overlays map[string]toolkit.OverlayClass
	mutex    sync.RWMutex
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		widgets:  make(map[string]toolkit.WidgetClass),
		overlays: make(map[string]toolkit.OverlayClass),
	}
}

// RegisterWidgetClass adds or replaces a widget class under its own name.
func (r *Registry) RegisterWidgetClass(c toolkit.WidgetClass) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.widgets[c.Name()] = c
}

// RegisterOverlayClass adds or replaces an overlay class under its own name.
func (r *Registry) RegisterOverlayClass(c toolkit.OverlayClass) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.overlays[c.Name()] = c
}

// WidgetClass retrieves a widget class by name.
func (r *Registry) WidgetClass(name string) (toolkit.WidgetClass, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	c, ok := r.widgets[name]
	return c, ok
}

// OverlayClass retrieves an overlay class by name.
func (r *Registry) OverlayClass(name string) (toolkit.OverlayClass, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	c, ok := r.overlays[name]
	return c, ok
}

// Unregister removes the name from both tables.
func (r *Registry) Unregister(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.widgets, name)
	delete(r.overlays, name)
}
