package session

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsa-sketch/pkg/fsa"
	"github.com/ha1tch/fsa-sketch/pkg/geometry"
	"github.com/ha1tch/fsa-sketch/pkg/render"
)

// countingSink counts redraws and remembers the last highlight.
type countingSink struct {
	clears    int
	states    []string
	highlight string
}

func (c *countingSink) Clear() { c.clears++; c.states = nil }
func (c *countingSink) DrawState(name string, x, y float64, i, f bool) { c.states = append(c.states, name) }
func (c *countingSink) DrawTransitionLine(p1, p2, l geometry.Point, s string) {}
func (c *countingSink) DrawSelfLoop(p geometry.Path, l geometry.Point, s string) {}
func (c *countingSink) SetHighlight(name string) { c.highlight = name }

func run(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, l := range lines {
		require.NoError(t, s.Exec(l), l)
	}
}

func TestExecBuildsAutomaton(t *testing.T) {
	s := New(nil, nil, nil, nil)
	run(t, s,
		"state A 0 0",
		"place B 220 20",
		"initial A",
		"final B",
		"transition A,B,a",
		"transition B, B, b",
	)

	a := s.Automaton()
	assert.Equal(t, 2, a.Len())
	b, ok := a.State("B")
	require.True(t, ok)
	assert.Equal(t, fsa.State{Name: "B", X: 200, Y: 0}, b)
	assert.True(t, a.IsInitial("A"))
	assert.Equal(t, []string{"B"}, a.Finals())
	assert.Equal(t, []fsa.Transition{{From: "A", To: "B", Symbol: "a"}, {From: "B", To: "B", Symbol: "b"}}, a.Transitions())
}

func TestExecErrors(t *testing.T) {
	s := New(nil, nil, nil, nil)
	run(t, s, "state A 0 0")

	tests := []struct {
		line string
		want error
	}{
		{"frobnicate", ErrUnknownCommand},
		{"state", ErrUsage},
		{"state A 1", ErrUsage},
		{"state A 0 0", fsa.ErrDuplicateState},
		{"place B 10 10", fsa.ErrTooClose},
		{"initial ghost", ErrNoState},
		{"final ghost", ErrNoState},
		{"transition", ErrUsage},
		{"transition A,B", fsa.ErrMalformedTransition},
		{"transition A,,x", fsa.ErrEmptyField},
		{"rmstate ghost", ErrNoState},
		{"rmtransition A,B,a", ErrNoTransition},
		{"move ghost 1 2", ErrNoState},
		{"place N NaN NaN", fsa.ErrBadPosition},
		{"state C Inf -Inf", fsa.ErrBadPosition},
		{"move A 1 NaN", fsa.ErrBadPosition},
		{"quit", ErrQuit},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			assert.ErrorIs(t, s.Exec(tc.line), tc.want)
		})
	}
	assert.Equal(t, 1, s.Automaton().Len())

	err := s.Exec("move A one 2")
	assert.Error(t, err)
}

func TestExecIgnoresBlankAndComments(t *testing.T) {
	s := New(nil, nil, nil, nil)
	run(t, s, "", "   ", "# state X 0 0")
	assert.Equal(t, 0, s.Automaton().Len())
}

func TestExecRedrawsAfterChanges(t *testing.T) {
	sink := &countingSink{}
	s := New(nil, render.NewDriver(sink), nil, nil)

	run(t, s, "state A 0 0", "state B 100 0")
	assert.Equal(t, 2, sink.clears)
	assert.Equal(t, []string{"A", "B"}, sink.states)

	// Rejected commands leave the drawing alone.
	assert.Error(t, s.Exec("state A 0 0"))
	assert.Equal(t, 2, sink.clears)

	run(t, s, "rmstate A")
	assert.Equal(t, []string{"B"}, sink.states)

	run(t, s, "draw")
	assert.Equal(t, 4, sink.clears)
}

func TestSimulateCommand(t *testing.T) {
	var out bytes.Buffer
	sink := &countingSink{}
	s := New(nil, render.NewDriver(sink), &out, nil)
	run(t, s,
		"state A 0 0", "state B 100 0",
		"initial A", "final B",
		"transition A,B,a", "transition B,A,b",
	)

	run(t, s, "simulate aba")
	assert.Contains(t, out.String(), "A -> B -> A -> B")
	assert.Contains(t, out.String(), "accepted: ended in final state B")
	assert.Equal(t, "B", sink.highlight)

	out.Reset()
	run(t, s, "simulate ab")
	assert.Contains(t, out.String(), "A is not a final state")

	out.Reset()
	run(t, s, "simulate ac")
	assert.Contains(t, out.String(), `rejected: no valid transition from state B for symbol "c" at index 1`)

	out.Reset()
	run(t, s, "simulate")
	assert.Contains(t, out.String(), "rejected")
}

func TestSimulateWithoutInitial(t *testing.T) {
	s := New(nil, nil, nil, nil)
	run(t, s, "state A 0 0")
	assert.ErrorIs(t, s.Exec("simulate a"), fsa.ErrNoInitialState)
}

func TestRemoveHighlightedStateClearsHighlight(t *testing.T) {
	sink := &countingSink{}
	d := render.NewDriver(sink)
	s := New(nil, d, nil, nil)
	run(t, s, "state A 0 0", "initial A", "simulate", "rmstate A")
	assert.Empty(t, d.Highlighted())
}

func TestListAndHelp(t *testing.T) {
	var out bytes.Buffer
	s := New(nil, nil, &out, nil)
	run(t, s, "state A 0 0", "state B 100 0", "initial A", "final A", "final B", "transition A,B,a", "list")

	text := out.String()
	assert.Contains(t, text, "->* A (0, 0)")
	assert.Contains(t, text, " *  B (100, 0)")
	assert.Contains(t, text, "A --a--> B")

	out.Reset()
	run(t, s, "help")
	for _, cmd := range []string{"state", "place", "initial", "final", "transition", "rmstate", "rmtransition", "simulate", "draw", "list"} {
		assert.True(t, strings.Contains(out.String(), "  "+cmd+" "), cmd)
	}
}

func TestMutates(t *testing.T) {
	for _, line := range []string{"state A", " place A 1 2", "RMSTATE A", "move A 1 1", "transition A,B,a"} {
		assert.True(t, Mutates(line), line)
	}
	for _, line := range []string{"", "list", "draw", "simulate ab", "help", "# state A"} {
		assert.False(t, Mutates(line), line)
	}
}

func FuzzExec(f *testing.F) {
	for _, l := range []string{"state A 0 0", "place B 1e3 -4", "transition A,B,a", "rmtransition ,,", "move A x y", "simulate αβ", "state", "initial"} {
		f.Add(l)
	}
	f.Fuzz(func(t *testing.T, line string) {
		s := New(nil, render.NewDriver(&countingSink{}), nil, nil)
		_ = s.Exec("state A 0 0")
		_ = s.Exec("initial A")
		before := s.Automaton().Clone()
		if err := s.Exec(line); err != nil {
			assert.Equal(t, before, s.Automaton(), "failed %q changed the model", line)
		}
	})
}

func TestNewDefaultsCollaborators(t *testing.T) {
	s := New(nil, nil, nil, nil)
	require.NotNil(t, s.log)
	require.NotNil(t, s.out)
	assert.Equal(t, 0, s.Automaton().Len())
	assert.ErrorIs(t, s.Exec("initial ghost"), ErrNoState)
}
