package fsa

import "strings"

// Step records one move of a simulation.
type Step struct {
	Index  int    // rune index of the consumed symbol
	Symbol string // consumed symbol
	From   string
	To     string
}

// Runner walks an input string one symbol at a time.
// It works on a snapshot of the automaton taken by NewRunner, so later edits
// do not affect a walk in progress.
type Runner struct {
	fsa     *Automaton
	symbols []string
	start   string
	current string
	pos     int
	history []Step
	err     error
}

// NewRunner prepares a walk of input from the initial state.
func NewRunner(a *Automaton, input string) (*Runner, error) {
	start, ok := a.Initial()
	if !ok {
		return nil, &SimulationError{Index: -1, Err: ErrNoInitialState}
	}

	symbols := make([]string, 0, len(input))
	for _, c := range input {
		symbols = append(symbols, string(c))
	}

	return &Runner{
		fsa:     a.Clone(),
		symbols: symbols,
		start:   start.Name,
		current: start.Name,
		history: make([]Step, 0, len(symbols)),
	}, nil
}

// Next consumes one symbol. It returns false once the input is exhausted or
// the walk is stuck; Err reports the latter.
func (r *Runner) Next() (Step, bool) {
	if r.Done() {
		return Step{}, false
	}

	symbol := r.symbols[r.pos]
	t, ok := r.match(r.current, symbol)
	if !ok {
		r.err = &SimulationError{
			Index:  r.pos,
			State:  r.current,
			Symbol: symbol,
			Err:    ErrNoTransition,
		}
		return Step{}, false
	}

	step := Step{Index: r.pos, Symbol: symbol, From: r.current, To: t.To}
	r.current = t.To
	r.pos++
	r.history = append(r.history, step)
	return step, true
}

// match returns the first transition in insertion order leaving from on
// symbol whose destination is a live state.
func (r *Runner) match(from, symbol string) (Transition, bool) {
	for _, t := range r.fsa.transitions {
		if t.From != from || t.Symbol != symbol {
			continue
		}
		if r.fsa.indexOf(t.To) < 0 {
			continue
		}
		return t, true
	}
	return Transition{}, false
}

// Done reports whether the walk has finished, successfully or not.
func (r *Runner) Done() bool {
	return r.err != nil || r.pos >= len(r.symbols)
}

// Err returns the SimulationError that stopped the walk, if any.
func (r *Runner) Err() error {
	return r.err
}

// Current returns the current state name.
func (r *Runner) Current() string {
	return r.current
}

// Position returns the index of the next symbol to consume.
func (r *Runner) Position() int {
	return r.pos
}

// Remaining returns the unconsumed part of the input.
func (r *Runner) Remaining() string {
	return strings.Join(r.symbols[r.pos:], "")
}

// History returns the steps taken so far.
func (r *Runner) History() []Step {
	out := make([]Step, len(r.history))
	copy(out, r.history)
	return out
}

// Reset returns the runner to the initial state with the same input.
func (r *Runner) Reset() {
	r.current = r.start
	r.pos = 0
	r.history = r.history[:0]
	r.err = nil
}

// Result describes the walk so far. Status is StatusPending until Done.
func (r *Runner) Result() (Result, error) {
	res := Result{
		Start: r.start,
		Final: r.current,
		Path:  make([]string, 0, len(r.history)),
		Index: -1,
	}
	for _, s := range r.history {
		res.Path = append(res.Path, s.To)
	}
	res.EndsInFinal = r.fsa.IsFinal(r.current)

	switch {
	case r.err != nil:
		se := r.err.(*SimulationError)
		res.Status = StatusRejected
		res.Index = se.Index
		res.Symbol = se.Symbol
		return res, r.err
	case r.pos < len(r.symbols):
		res.Status = StatusPending
		return res, nil
	case len(r.symbols) == 0 && !res.EndsInFinal:
		res.Status = StatusRejected
		return res, &SimulationError{Index: -1, State: r.current, Err: ErrEmptyInput}
	}
	res.Status = StatusAccepted
	return res, nil
}
