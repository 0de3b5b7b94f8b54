package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsa-sketch/internal/session"
	"github.com/ha1tch/fsa-sketch/pkg/fsa"
	"github.com/ha1tch/fsa-sketch/pkg/render"
)

// Unpositioned states are laid out left to right on a grid.
const (
	gridColumns = 6
	gridSpacing = 120.0
	gridMargin  = 40.0
)

// buildFlags describes an automaton on the command line.
type buildFlags struct {
	states      []string
	initial     string
	finals      []string
	transitions []string
	script      string
}

func addBuildFlags(cmd *cobra.Command, f *buildFlags) {
	cmd.Flags().StringArrayVarP(&f.states, "state", "s", nil, "State NAME or NAME@X,Y (repeatable)")
	cmd.Flags().StringVarP(&f.initial, "initial", "i", "", "Initial state")
	cmd.Flags().StringArrayVarP(&f.finals, "final", "f", nil, "Final state (repeatable)")
	cmd.Flags().StringArrayVarP(&f.transitions, "transition", "t", nil, "Transition FROM,TO,SYMBOL (repeatable)")
	cmd.Flags().StringVar(&f.script, "script", "", "File of session commands applied after the flags")
}

// parseStateFlag splits NAME or NAME@X,Y.
func parseStateFlag(v string) (name string, x, y float64, positioned bool, err error) {
	name, pos, ok := strings.Cut(v, "@")
	if !ok {
		return name, 0, 0, false, nil
	}
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return "", 0, 0, false, fmt.Errorf("state %q: position must be X,Y", v)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
		return "", 0, 0, false, fmt.Errorf("state %q: bad x: %w", v, err)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
		return "", 0, 0, false, fmt.Errorf("state %q: bad y: %w", v, err)
	}
	return name, x, y, true, nil
}

// automaton applies the flags to a new automaton.
func (f *buildFlags) automaton() (*fsa.Automaton, error) {
	a := fsa.New()

	slot := 0
	for _, v := range f.states {
		name, x, y, positioned, err := parseStateFlag(v)
		if err != nil {
			return nil, err
		}
		if !positioned {
			x = gridMargin + float64(slot%gridColumns)*gridSpacing
			y = gridMargin + float64(slot/gridColumns)*gridSpacing
			slot++
		}
		if err := a.AddState(name, x, y); err != nil {
			return nil, err
		}
	}

	if f.initial != "" && !a.SetInitial(f.initial) {
		return nil, fmt.Errorf("initial state %q is not defined", f.initial)
	}
	for _, name := range f.finals {
		if !a.AddFinal(name) {
			return nil, fmt.Errorf("final state %q is not defined", name)
		}
	}
	for _, tok := range f.transitions {
		if err := a.AddTransitionToken(tok); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// session builds the automaton, wraps it in a session and runs the script.
func (f *buildFlags) session(d *render.Driver, out io.Writer) (*session.Session, error) {
	a, err := f.automaton()
	if err != nil {
		return nil, err
	}
	s := session.New(a, d, out, logger)
	if f.script == "" {
		return s, nil
	}

	file, err := os.Open(f.script)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer file.Close()

	if err := runScript(s, file, f.script); err != nil {
		return nil, err
	}
	return s, nil
}

// runScript executes every line of r, stopping at the first failure.
func runScript(s *session.Session, r io.Reader, name string) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		err := s.Exec(scanner.Text())
		if errors.Is(err, session.ErrQuit) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, n, err)
		}
	}
	return scanner.Err()
}
