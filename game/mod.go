package game

import (
	"errors"
	"fmt"
)

// ErrSimulatorFailure is wrapped by every error returned from State.Successor.
// Callers must never treat a failed successor as a valid state.
var ErrSimulatorFailure = errors.New("simulator failure")

var (
	ErrBudgetExhausted = fmt.Errorf("%w: successor budget exhausted", ErrSimulatorFailure)
	ErrTerminalState   = fmt.Errorf("%w: successor of terminal state", ErrSimulatorFailure)
)

// State should be immutable - Successor always returns a new copy
type State interface {
	// LegalActions returns the actions the agent may take from this state, possibly none.
	LegalActions() []Action
	// AllActions returns the full action space regardless of legality.
	AllActions() []Action
	// Successor returns the state after the agent plays action, or an error
	// wrapping ErrSimulatorFailure.
	Successor(action Action) (State, error)
	IsWin() bool
	IsLose() bool
}

// IsTerminal reports whether the state is a win or a loss.
func IsTerminal(s State) bool {
	return s.IsWin() || s.IsLose()
}

// Evaluate scores a state; higher is more desirable for the agent.
type Evaluate func(State) float64

// Compare scores candidate relative to baseline on a normalized scale.
type Compare func(baseline, candidate State) float64
