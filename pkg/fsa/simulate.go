package fsa

// Status is the outcome of a simulation.
type Status int

const (
	// StatusAccepted means the whole input was consumed. Whether the walk
	// ended in a final state is reported separately by Result.EndsInFinal.
	StatusAccepted Status = iota
	// StatusRejected means no transition matched a symbol (or the input was
	// empty and the initial state is not final).
	StatusRejected
	// StatusError means the simulation could not start.
	StatusError
	// StatusPending means a Runner has symbols left to consume.
	StatusPending
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	case StatusError:
		return "error"
	case StatusPending:
		return "pending"
	}
	return "unknown"
}

// Result is the outcome of a simulation.
type Result struct {
	Status      Status
	Start       string   // initial state
	Path        []string // state entered after each consumed symbol
	Final       string   // state the walk ended in
	EndsInFinal bool     // Final is a member of the final set
	Index       int      // offending rune index when rejected on a symbol, else -1
	Symbol      string   // offending symbol when rejected on a symbol
}

// Observer receives one event per successful step, in order.
type Observer func(Step)

// Simulate walks input from the initial state, calling observe after every
// move. The first matching transition in insertion order wins when several
// leave the current state on the same symbol.
//
// A non-nil error is always a *SimulationError; the Result is still filled
// in with how far the walk got.
func Simulate(a *Automaton, input string, observe Observer) (Result, error) {
	r, err := NewRunner(a, input)
	if err != nil {
		return Result{Status: StatusError, Index: -1}, err
	}
	for {
		step, ok := r.Next()
		if !ok {
			break
		}
		if observe != nil {
			observe(step)
		}
	}
	return r.Result()
}

// Accepts reports whether input is fully consumed and ends in a final state.
func Accepts(a *Automaton, input string) bool {
	res, err := Simulate(a, input, nil)
	return err == nil && res.EndsInFinal
}
