package spinner

import (
	"context"

	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/spindleui/spindle/internal/finitestate"
)

var _ supervisor.Stateable = (*Behavior)(nil)

func (b *Behavior) GetState() string {
	return b.fsm.GetState()
}

func (b *Behavior) GetStateChan(ctx context.Context) <-chan string {
	return b.fsm.GetStateChan(ctx)
}

// IsRunning reports whether a control loop is live, i.e. waiting for
// activation or holding the overlay open.
func (b *Behavior) IsRunning() bool {
	state := b.fsm.GetState()
	return state == finitestate.StateAwaiting || state == finitestate.StateOpen
}

// SetupCount returns how many run setups have started since the behavior was
// created. Batched configuration mutations increment it once.
func (b *Behavior) SetupCount() uint64 {
	return b.setups.Load()
}
