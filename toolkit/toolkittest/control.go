package toolkittest

import (
	"sync"

	"github.com/spindleui/spindle/toolkit"
)

var _ toolkit.Control = (*FakeControl)(nil)

// FakeControl is the host control stand-in. Activate fires its activation
// signal; SetHeight feeds the height-sync bindings.
type FakeControl struct {
	activation *FakeSignal

	mu        sync.Mutex
	height    float64
	heightFns map[uint64]func(float64)
	next      uint64
}

// NewFakeControl creates a control with the given initial height.
func NewFakeControl(height float64) *FakeControl {
	return &FakeControl{
		activation: NewFakeSignal(),
		height:     height,
		heightFns:  make(map[uint64]func(float64)),
	}
}

// Activation implements toolkit.Control.
func (c *FakeControl) Activation() toolkit.Signal { return c.activation }

// Height implements toolkit.Control.
func (c *FakeControl) Height() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// BindHeight implements toolkit.Control.
func (c *FakeControl) BindHeight(fn func(float64)) toolkit.Binding {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	id := c.next
	c.heightFns[id] = fn
	return toolkit.NewBinding(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.heightFns, id)
	})
}

// Activate simulates the user triggering the control.
func (c *FakeControl) Activate() {
	c.activation.Emit()
}

// SetHeight changes the control height and notifies height bindings.
func (c *FakeControl) SetHeight(height float64) {
	c.mu.Lock()
	c.height = height
	fns := make([]func(float64), 0, len(c.heightFns))
	for _, fn := range c.heightFns {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(height)
	}
}

// ActiveHeightBindings returns the number of unreleased height bindings.
func (c *FakeControl) ActiveHeightBindings() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.heightFns)
}

// ActivationSubscribers returns the number of unreleased activation
// subscriptions.
func (c *FakeControl) ActivationSubscribers() int {
	return c.activation.ActiveSubscribers()
}
