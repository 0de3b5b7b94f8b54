// Package session applies text commands to an automaton and keeps an
// attached drawing in sync. It backs the shell and the CLI builders.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ha1tch/fsa-sketch/internal/logging"
	"github.com/ha1tch/fsa-sketch/pkg/fsa"
	"github.com/ha1tch/fsa-sketch/pkg/render"
)

var (
	// ErrUnknownCommand is returned for a command word Exec does not know.
	ErrUnknownCommand = errors.New("session: unknown command")
	// ErrUsage is returned when a command has the wrong arguments.
	ErrUsage = errors.New("session: usage")
	// ErrNoState is returned when a command names a state that is not defined.
	ErrNoState = errors.New("session: no such state")
	// ErrNoTransition is returned when rmtransition names an absent triple.
	ErrNoTransition = errors.New("session: no such transition")
	// ErrQuit is returned by quit and exit.
	ErrQuit = errors.New("session: quit")
)

// Help lists the commands understood by Exec.
const Help = `Commands:
  state NAME [X Y]          add a state (top-left at X,Y)
  place NAME X Y            add a state centred on a click at X,Y
  initial NAME              set the initial state
  final NAME                mark a final state
  transition FROM,TO,SYM    add a transition
  rmstate NAME              remove a state and its transitions
  rmtransition FROM,TO,SYM  remove a transition
  move NAME X Y             move a state
  simulate [INPUT]          run INPUT from the initial state
  draw                      redraw the canvas
  list                      show states and transitions
  help                      show this text
  quit                      leave`

// Mutates reports whether line is a command that can change the model.
func Mutates(line string) bool {
	cmd, _, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch strings.ToLower(cmd) {
	case "state", "place", "initial", "final", "transition", "rmstate", "rmtransition", "move":
		return true
	}
	return false
}

// Session owns an automaton and optionally a render driver that is redrawn
// after every change.
type Session struct {
	fsa    *fsa.Automaton
	driver *render.Driver
	out    io.Writer
	log    *slog.Logger
}

// New returns a session over a. The driver may be nil. Command output goes
// to out.
func New(a *fsa.Automaton, driver *render.Driver, out io.Writer, log *slog.Logger) *Session {
	if a == nil {
		a = fsa.New()
	}
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Session{fsa: a, driver: driver, out: out, log: log}
}

// Automaton returns the session's model.
func (s *Session) Automaton() *fsa.Automaton { return s.fsa }

// Exec parses and applies one command line. Blank lines and lines starting
// with # are ignored. A failed command leaves the model unchanged.
func (s *Session) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	var err error
	switch strings.ToLower(cmd) {
	case "state":
		err = s.addState(args)
	case "place":
		err = s.place(args)
	case "initial":
		err = s.setInitial(args)
	case "final":
		err = s.addFinal(args)
	case "transition":
		err = s.addTransition(rest)
	case "rmstate":
		err = s.removeState(args)
	case "rmtransition":
		err = s.removeTransition(rest)
	case "move":
		err = s.move(args)
	case "simulate":
		return s.simulate(rest)
	case "draw":
		s.Redraw()
		return nil
	case "list":
		s.list()
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, Help)
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd)
	}

	if err != nil {
		s.log.Info("command rejected", "cmd", cmd, "error", err)
		return err
	}
	s.log.Debug("command applied", "cmd", cmd, "args", rest)
	s.Redraw()
	return nil
}

// Redraw repaints the attached driver, if any.
func (s *Session) Redraw() {
	if s.driver != nil {
		s.driver.Draw(s.fsa)
	}
}

func usage(form string) error {
	return fmt.Errorf("%w: %s", ErrUsage, form)
}

func parseXY(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x coordinate %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y coordinate %q: %w", ys, err)
	}
	return x, y, nil
}

func (s *Session) addState(args []string) error {
	switch len(args) {
	case 1:
		return s.fsa.AddState(args[0], 0, 0)
	case 3:
		x, y, err := parseXY(args[1], args[2])
		if err != nil {
			return err
		}
		return s.fsa.AddState(args[0], x, y)
	}
	return usage("state NAME [X Y]")
}

func (s *Session) place(args []string) error {
	if len(args) != 3 {
		return usage("place NAME X Y")
	}
	x, y, err := parseXY(args[1], args[2])
	if err != nil {
		return err
	}
	return s.fsa.AddStateAt(args[0], x, y)
}

func (s *Session) setInitial(args []string) error {
	if len(args) != 1 {
		return usage("initial NAME")
	}
	if !s.fsa.SetInitial(args[0]) {
		return fmt.Errorf("%w %q", ErrNoState, args[0])
	}
	return nil
}

func (s *Session) addFinal(args []string) error {
	if len(args) != 1 {
		return usage("final NAME")
	}
	if !s.fsa.AddFinal(args[0]) {
		return fmt.Errorf("%w %q", ErrNoState, args[0])
	}
	return nil
}

func (s *Session) addTransition(token string) error {
	if token == "" {
		return usage("transition FROM,TO,SYM")
	}
	return s.fsa.AddTransitionToken(token)
}

func (s *Session) removeState(args []string) error {
	if len(args) != 1 {
		return usage("rmstate NAME")
	}
	if !s.fsa.RemoveState(args[0]) {
		return fmt.Errorf("%w %q", ErrNoState, args[0])
	}
	if s.driver != nil && s.driver.Highlighted() == args[0] {
		s.driver.Highlight("")
	}
	return nil
}

func (s *Session) removeTransition(token string) error {
	t, err := fsa.ParseTransition(token)
	if err != nil {
		return err
	}
	if !s.fsa.RemoveTransition(t.From, t.To, t.Symbol) {
		return fmt.Errorf("%w %s", ErrNoTransition, t)
	}
	return nil
}

func (s *Session) move(args []string) error {
	if len(args) != 3 {
		return usage("move NAME X Y")
	}
	x, y, err := parseXY(args[1], args[2])
	if err != nil {
		return err
	}
	err = s.fsa.MoveState(args[0], x, y)
	if errors.Is(err, fsa.ErrUnknownState) {
		return fmt.Errorf("%w %q", ErrNoState, args[0])
	}
	return err
}

// simulate prints the walk and the verdict. Rejections are reported on out
// and are not command errors; a missing initial state is.
func (s *Session) simulate(input string) error {
	var observe fsa.Observer
	if s.driver != nil {
		if start, ok := s.fsa.Initial(); ok {
			s.driver.Highlight(start.Name)
		}
		observe = s.driver.Observe
	}

	res, err := fsa.Simulate(s.fsa, input, observe)
	if res.Status == fsa.StatusError {
		s.log.Info("simulation failed", "input", input, "error", err)
		return err
	}
	s.Redraw()

	fmt.Fprintln(s.out, FormatWalk(res))
	fmt.Fprintln(s.out, FormatVerdict(res, err))
	s.log.Debug("simulated", "input", input, "status", res.Status, "final", res.Final)
	return nil
}

func (s *Session) list() {
	fmt.Fprintln(s.out, "States:")
	for _, st := range s.fsa.States() {
		mark := "  "
		switch {
		case s.fsa.IsInitial(st.Name) && s.fsa.IsFinal(st.Name):
			mark = "->*"
		case s.fsa.IsInitial(st.Name):
			mark = "->"
		case s.fsa.IsFinal(st.Name):
			mark = " *"
		}
		fmt.Fprintf(s.out, "  %-3s %s (%.0f, %.0f)\n", mark, st.Name, st.X, st.Y)
	}
	fmt.Fprintln(s.out, "Transitions:")
	for _, t := range s.fsa.Transitions() {
		fmt.Fprintf(s.out, "  %s --%s--> %s\n", t.From, t.Symbol, t.To)
	}
}

// FormatWalk renders the visited states as "A -> B -> C".
func FormatWalk(res fsa.Result) string {
	return strings.Join(append([]string{res.Start}, res.Path...), " -> ")
}

// FormatVerdict describes a simulation outcome in one line.
func FormatVerdict(res fsa.Result, err error) string {
	switch res.Status {
	case fsa.StatusAccepted:
		if res.EndsInFinal {
			return fmt.Sprintf("accepted: ended in final state %s", res.Final)
		}
		return fmt.Sprintf("input consumed, but %s is not a final state", res.Final)
	case fsa.StatusRejected:
		if err != nil {
			return "rejected: " + err.Error()
		}
		return "rejected"
	}
	if err != nil {
		return res.Status.String() + ": " + err.Error()
	}
	return res.Status.String()
}
