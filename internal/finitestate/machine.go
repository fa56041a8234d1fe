// Package finitestate provides the finite state machine that tracks the
// spinner control-loop lifecycle.
//
// Loop lifecycle:
//  1. Idle - no loop is running; waiting for a restart request
//  2. SettingUp - resolving classes, building the overlay and option widgets
//  3. AwaitingActivation - steady state, waiting for the control to be triggered
//  4. Open - overlay is shown, waiting for dismissal
//  5. CleaningUp - releasing bindings and returning resources to the pool
//  6. Stopped - the behavior has shut down (terminal)
//
// SettingUp may fall back to Idle directly when no overlay class is
// configured; every other exit from a run passes through CleaningUp.
package finitestate

import (
	"context"
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// State constants for the control-loop lifecycle
const (
	StateIdle       = "idle"
	StateSettingUp  = "setting_up"
	StateAwaiting   = "awaiting_activation"
	StateOpen       = "open"
	StateCleaningUp = "cleaning_up"
	StateStopped    = "stopped"
	StateError      = "error"
)

// LoopTransitions defines the valid state transitions for the control loop.
var LoopTransitions = map[string][]string{
	StateIdle:      {StateSettingUp, StateStopped, StateError},
	StateSettingUp: {StateAwaiting, StateCleaningUp, StateIdle, StateError},

	// Steady state: open/close cycle, interruptible at any point
	StateAwaiting: {StateOpen, StateCleaningUp, StateError},
	StateOpen:     {StateAwaiting, StateCleaningUp, StateError},

	// Cleanup always completes and hands control back to the idle state
	StateCleaningUp: {StateIdle, StateError},

	// Terminal states
	StateStopped: {},
	StateError:   {},
}

// Machine defines the interface for the finite state machine that tracks the
// control-loop lifecycle.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// TransitionBool attempts to transition the state machine to the specified state.
	TransitionBool(state string) bool

	// TransitionIfCurrentState attempts to transition the state machine to the specified state
	TransitionIfCurrentState(currentState, newState string) error

	// SetState sets the state of the state machine to the specified state.
	SetState(state string) error

	// GetState returns the current state of the state machine.
	GetState() string

	// GetStateChan returns a channel that emits the state machine's state
	// whenever it changes. The channel is closed when the provided context is
	// canceled.
	GetStateChan(ctx context.Context) <-chan string
}

// New creates a new control-loop state machine starting in the Idle state.
func New(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, StateIdle, LoopTransitions)
}
