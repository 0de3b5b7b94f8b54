// Package fsa provides the finite-state automaton model built on the canvas
// and the step-by-step simulation that walks input strings through it.
//
// States are kept in insertion order so that drawing and listing are
// deterministic. Transitions are kept in insertion order too; the simulator
// resolves nondeterminism by taking the first matching transition.
//
// The initial and final designations are weak: they are stored by name and
// re-resolved against the live states on every query.
package fsa

import (
	"math"
	"strings"
)

const (
	// ExclusionBox is the half-width of the square around an existing state
	// in which AddStateAt refuses to place another state.
	ExclusionBox = 50.0

	// CenterAdjust shifts a clicked point so it becomes the centre of the
	// drawn state rather than its top-left corner. It matches the drawn
	// state radius.
	CenterAdjust = 20.0
)

// State is a named node with a canvas position (top-left anchor).
type State struct {
	Name string
	X, Y float64
}

// Transition is a directed edge labelled with a symbol.
type Transition struct {
	From   string
	To     string
	Symbol string
}

// String formats the transition as its input token.
func (t Transition) String() string {
	return t.From + "," + t.To + "," + t.Symbol
}

// IsSelfLoop reports whether the transition starts and ends at the same state.
func (t Transition) IsSelfLoop() bool {
	return t.From == t.To
}

// Automaton owns states, transitions and the initial/final designations.
// It is not safe for concurrent use.
type Automaton struct {
	states      []State
	transitions []Transition
	initial     string
	finals      map[string]struct{}
}

// New returns an empty automaton.
func New() *Automaton {
	return &Automaton{
		states:      make([]State, 0),
		transitions: make([]Transition, 0),
		finals:      make(map[string]struct{}),
	}
}

// AddState appends a state at the given position.
func (a *Automaton) AddState(name string, x, y float64) error {
	if err := a.checkName("add state", name); err != nil {
		return err
	}
	if err := checkPosition("add state", name, x, y); err != nil {
		return err
	}
	a.states = append(a.states, State{Name: name, X: x, Y: y})
	return nil
}

// AddStateAt places a state so that (x, y) becomes its visual centre.
// It is rejected when the adjusted position falls inside the exclusion box
// of any existing state.
func (a *Automaton) AddStateAt(name string, x, y float64) error {
	if err := a.checkName("place state", name); err != nil {
		return err
	}
	if err := checkPosition("place state", name, x, y); err != nil {
		return err
	}
	px, py := x-CenterAdjust, y-CenterAdjust
	for _, s := range a.states {
		if math.Abs(s.X-px) < ExclusionBox && math.Abs(s.Y-py) < ExclusionBox {
			return invalid("place state", name, ErrTooClose)
		}
	}
	a.states = append(a.states, State{Name: name, X: px, Y: py})
	return nil
}

func (a *Automaton) checkName(op, name string) error {
	if name == "" {
		return invalid(op, name, ErrEmptyName)
	}
	if a.indexOf(name) >= 0 {
		return invalid(op, name, ErrDuplicateState)
	}
	return nil
}

// checkPosition rejects NaN and infinite coordinates.
func checkPosition(op, name string, x, y float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return invalid(op, name, ErrBadPosition)
	}
	return nil
}

// MoveState updates the position of an existing state.
func (a *Automaton) MoveState(name string, x, y float64) error {
	i := a.indexOf(name)
	if i < 0 {
		return invalid("move state", name, ErrUnknownState)
	}
	if err := checkPosition("move state", name, x, y); err != nil {
		return err
	}
	a.states[i].X, a.states[i].Y = x, y
	return nil
}

// SetInitial designates name as the initial state. The previous designation
// is kept when name does not exist.
func (a *Automaton) SetInitial(name string) bool {
	if a.indexOf(name) < 0 {
		return false
	}
	a.initial = name
	return true
}

// AddFinal marks name as final. Unknown names are ignored.
func (a *Automaton) AddFinal(name string) bool {
	if a.indexOf(name) < 0 {
		return false
	}
	a.finals[name] = struct{}{}
	return true
}

// RemoveFinal clears the final mark on name.
func (a *Automaton) RemoveFinal(name string) {
	delete(a.finals, name)
}

// ToggleFinal flips the final mark on an existing state and returns the new
// membership.
func (a *Automaton) ToggleFinal(name string) bool {
	if a.IsFinal(name) {
		a.RemoveFinal(name)
		return false
	}
	return a.AddFinal(name)
}

// AddTransition adds the triple unless a field is empty or the exact triple
// already exists. Endpoints are not required to exist.
func (a *Automaton) AddTransition(from, to, symbol string) error {
	t := Transition{From: from, To: to, Symbol: symbol}
	if from == "" || to == "" || symbol == "" {
		return invalid("add transition", t.String(), ErrEmptyField)
	}
	if a.hasTransition(t) {
		return invalid("add transition", t.String(), ErrDuplicateTransition)
	}
	a.transitions = append(a.transitions, t)
	return nil
}

// AddTransitionToken parses a "from,to,symbol" token and adds it.
func (a *Automaton) AddTransitionToken(token string) error {
	t, err := ParseTransition(token)
	if err != nil {
		return err
	}
	return a.AddTransition(t.From, t.To, t.Symbol)
}

// ParseTransition splits a "from,to,symbol" token. Each field is trimmed and
// must be non-empty. Symbols cannot contain commas.
func ParseTransition(token string) (Transition, error) {
	parts := strings.Split(token, ",")
	if len(parts) != 3 {
		return Transition{}, invalid("parse transition", token, ErrMalformedTransition)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return Transition{}, invalid("parse transition", token, ErrEmptyField)
		}
	}
	return Transition{From: parts[0], To: parts[1], Symbol: parts[2]}, nil
}

// RemoveState deletes the state, every transition touching it, and its
// initial and final designations.
func (a *Automaton) RemoveState(name string) bool {
	i := a.indexOf(name)
	if i < 0 {
		return false
	}
	a.states = append(a.states[:i:i], a.states[i+1:]...)

	kept := a.transitions[:0:0]
	for _, t := range a.transitions {
		if t.From != name && t.To != name {
			kept = append(kept, t)
		}
	}
	a.transitions = kept

	if a.initial == name {
		a.initial = ""
	}
	delete(a.finals, name)
	return true
}

// RemoveTransition deletes the exact triple if present.
func (a *Automaton) RemoveTransition(from, to, symbol string) bool {
	t := Transition{From: from, To: to, Symbol: symbol}
	for i, existing := range a.transitions {
		if existing == t {
			a.transitions = append(a.transitions[:i:i], a.transitions[i+1:]...)
			return true
		}
	}
	return false
}

// States returns a copy of the states in insertion order.
func (a *Automaton) States() []State {
	out := make([]State, len(a.states))
	copy(out, a.states)
	return out
}

// State looks a state up by name.
func (a *Automaton) State(name string) (State, bool) {
	i := a.indexOf(name)
	if i < 0 {
		return State{}, false
	}
	return a.states[i], true
}

// Transitions returns a copy of the transitions in insertion order.
func (a *Automaton) Transitions() []Transition {
	out := make([]Transition, len(a.transitions))
	copy(out, a.transitions)
	return out
}

// Initial resolves the initial designation against the live states.
func (a *Automaton) Initial() (State, bool) {
	if a.initial == "" {
		return State{}, false
	}
	return a.State(a.initial)
}

// IsInitial reports whether name is the live initial state.
func (a *Automaton) IsInitial(name string) bool {
	s, ok := a.Initial()
	return ok && s.Name == name
}

// IsFinal reports whether name is a live final state.
func (a *Automaton) IsFinal(name string) bool {
	if _, ok := a.finals[name]; !ok {
		return false
	}
	return a.indexOf(name) >= 0
}

// Finals returns the final state names in state order.
func (a *Automaton) Finals() []string {
	var out []string
	for _, s := range a.states {
		if _, ok := a.finals[s.Name]; ok {
			out = append(out, s.Name)
		}
	}
	return out
}

// Len returns the number of states.
func (a *Automaton) Len() int {
	return len(a.states)
}

// Clone returns an independent deep copy.
func (a *Automaton) Clone() *Automaton {
	c := &Automaton{
		states:      a.States(),
		transitions: a.Transitions(),
		initial:     a.initial,
		finals:      make(map[string]struct{}, len(a.finals)),
	}
	for name := range a.finals {
		c.finals[name] = struct{}{}
	}
	return c
}

func (a *Automaton) indexOf(name string) int {
	for i, s := range a.states {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (a *Automaton) hasTransition(t Transition) bool {
	for _, existing := range a.transitions {
		if existing == t {
			return true
		}
	}
	return false
}
