package fsa

import (
	"errors"
	"fmt"
)

// Sentinel errors for model and simulation operations.
var (
	// ErrEmptyName indicates a state name is the empty string.
	ErrEmptyName = errors.New("fsa: state name is empty")

	// ErrDuplicateState indicates a state with the same name already exists.
	ErrDuplicateState = errors.New("fsa: state already exists")

	// ErrTooClose indicates a placement inside the exclusion box of another state.
	ErrTooClose = errors.New("fsa: position too close to existing state")

	// ErrEmptyField indicates a transition with an empty from, to or symbol.
	ErrEmptyField = errors.New("fsa: transition field is empty")

	// ErrMalformedTransition indicates a token that is not "from,to,symbol".
	ErrMalformedTransition = errors.New("fsa: malformed transition, expected from,to,symbol")

	// ErrDuplicateTransition indicates the (from, to, symbol) triple already exists.
	ErrDuplicateTransition = errors.New("fsa: transition already exists")

	// ErrBadPosition indicates a coordinate that is NaN or infinite.
	ErrBadPosition = errors.New("fsa: position is not a finite number")

	// ErrUnknownState indicates an operation named a state that does not exist.
	ErrUnknownState = errors.New("fsa: no such state")

	// ErrNoInitialState indicates a simulation was requested with no live initial state.
	ErrNoInitialState = errors.New("fsa: no initial state")

	// ErrNoTransition indicates no transition leaves the current state on the symbol.
	ErrNoTransition = errors.New("fsa: no valid transition")

	// ErrEmptyInput indicates empty input on an automaton whose initial state is not final.
	ErrEmptyInput = errors.New("fsa: empty input and initial state is not final")
)

// ValidationError reports a rejected model mutation. The model is unchanged.
type ValidationError struct {
	Op    string // operation name, e.g. "add state"
	Value string // offending input
	Err   error  // one of the validation sentinels
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SimulationError reports where a simulation stopped.
type SimulationError struct {
	Index  int    // rune index of the offending symbol, -1 when not applicable
	State  string // current state when the walk stopped
	Symbol string // offending symbol
	Err    error
}

func (e *SimulationError) Error() string {
	switch {
	case errors.Is(e.Err, ErrNoTransition):
		return fmt.Sprintf("no valid transition from state %s for symbol %q at index %d", e.State, e.Symbol, e.Index)
	case e.State != "":
		return fmt.Sprintf("%v (state %s)", e.Err, e.State)
	}
	return e.Err.Error()
}

func (e *SimulationError) Unwrap() error { return e.Err }

func invalid(op, value string, err error) error {
	return &ValidationError{Op: op, Value: value, Err: err}
}
