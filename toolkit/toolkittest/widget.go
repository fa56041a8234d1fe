package toolkittest

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/spindleui/spindle/toolkit"
)

var (
	_ toolkit.WidgetClass = (*FakeWidgetClass)(nil)
	_ toolkit.Widget      = (*FakeWidget)(nil)
)

// FakeWidgetClass constructs FakeWidgets. If RejectField is non-empty,
// applying that field fails, which lets tests exercise descriptor errors.
type FakeWidgetClass struct {
	ClassName   string
	RejectField string

	created atomic.Int64
}

// Name implements toolkit.WidgetClass.
func (c *FakeWidgetClass) Name() string { return c.ClassName }

// NewWidget implements toolkit.WidgetClass.
func (c *FakeWidgetClass) NewWidget() toolkit.Widget {
	c.created.Add(1)
	return &FakeWidget{class: c.ClassName, rejectField: c.RejectField}
}

// Created returns how many widgets this class has constructed.
func (c *FakeWidgetClass) Created() int { return int(c.created.Load()) }

// FakeWidget records the fields and height applied to it.
type FakeWidget struct {
	class       string
	rejectField string

	mu     sync.Mutex
	fields map[string]any
	height float64

	release callbackSet
}

// Apply implements toolkit.Widget.
func (w *FakeWidget) Apply(field string, value any) error {
	if w.rejectField != "" && field == w.rejectField {
		return fmt.Errorf("widget class %q has no field %q", w.class, field)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fields == nil {
		w.fields = make(map[string]any)
	}
	w.fields[field] = value
	return nil
}

// SetHeight implements toolkit.Widget.
func (w *FakeWidget) SetHeight(height float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.height = height
}

// BindRelease implements toolkit.Widget.
func (w *FakeWidget) BindRelease(fn func(toolkit.Widget)) toolkit.Binding {
	return w.release.add(fn)
}

// Release simulates the user releasing (picking) this widget.
func (w *FakeWidget) Release() {
	w.release.invoke(w)
}

// Field returns the last value applied for the named field.
func (w *FakeWidget) Field(name string) any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields[name]
}

// Height returns the last height set on the widget.
func (w *FakeWidget) Height() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// ActiveReleaseBindings returns the number of unreleased release bindings.
func (w *FakeWidget) ActiveReleaseBindings() int {
	return w.release.len()
}
