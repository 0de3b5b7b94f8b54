package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsa-sketch/internal/session"
	"github.com/ha1tch/fsa-sketch/pkg/fsa"
)

func TestParseStateFlag(t *testing.T) {
	tests := []struct {
		in         string
		name       string
		x, y       float64
		positioned bool
		wantErr    bool
	}{
		{in: "A", name: "A"},
		{in: "q0@40,60", name: "q0", x: 40, y: 60, positioned: true},
		{in: "B@ 1.5 , 2 ", name: "B", x: 1.5, y: 2, positioned: true},
		{in: "C@10", wantErr: true},
		{in: "C@x,1", wantErr: true},
		{in: "C@1,y", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			name, x, y, positioned, err := parseStateFlag(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.name, name)
			assert.Equal(t, tc.x, x)
			assert.Equal(t, tc.y, y)
			assert.Equal(t, tc.positioned, positioned)
		})
	}
}

func TestBuildFlagsAutomaton(t *testing.T) {
	f := buildFlags{
		states:      []string{"A", "B", "C@500,500"},
		initial:     "A",
		finals:      []string{"C"},
		transitions: []string{"A,B,a", "B,C,b"},
	}
	a, err := f.automaton()
	require.NoError(t, err)

	assert.Equal(t, []fsa.State{
		{Name: "A", X: gridMargin, Y: gridMargin},
		{Name: "B", X: gridMargin + gridSpacing, Y: gridMargin},
		{Name: "C", X: 500, Y: 500},
	}, a.States())
	assert.True(t, fsa.Accepts(a, "ab"))
}

func TestBuildFlagsErrors(t *testing.T) {
	tests := map[string]buildFlags{
		"duplicate state": {states: []string{"A", "A"}},
		"unknown initial": {states: []string{"A"}, initial: "B"},
		"unknown final":   {states: []string{"A"}, finals: []string{"B"}},
		"bad transition":  {states: []string{"A"}, transitions: []string{"A,A"}},
	}
	for name, f := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.automaton()
			assert.Error(t, err)
		})
	}
}

func TestRunScript(t *testing.T) {
	s := session.New(nil, nil, nil, nil)
	script := "state A 0 0\n# comment\ninitial A\nquit\nstate B 100 0\n"
	require.NoError(t, runScript(s, strings.NewReader(script), "demo"))
	assert.Equal(t, 1, s.Automaton().Len())

	err := runScript(s, strings.NewReader("\nstate A 0 0\n"), "demo")
	assert.ErrorIs(t, err, fsa.ErrDuplicateState)
	assert.Contains(t, err.Error(), "demo:2:")
}

func TestScriptFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ab.fsa")
	require.NoError(t, os.WriteFile(path, []byte("final B\ntransition A,B,a\n"), 0o644))

	f := buildFlags{states: []string{"A", "B"}, initial: "A", script: path}
	s, err := f.session(nil, nil)
	require.NoError(t, err)
	assert.True(t, fsa.Accepts(s.Automaton(), "a"))

	f.script = filepath.Join(t.TempDir(), "missing")
	_, err = f.session(nil, nil)
	assert.Error(t, err)
}

func TestRenderCommandWritesSVG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ab.svg")
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"render",
		"-s", "A@40,40", "-s", "B@200,40",
		"-i", "A", "-f", "B", "-t", "A,B,a",
		"--input", "a", "-o", out,
	})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "state-active")
	assert.Contains(t, stdout.String(), "Written "+out)
}

func TestShellReadsCommandInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader("state A 0 0\nbogus\nlist\nquit\nstate B 100 0\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })
	rootCmd.SetArgs([]string{"shell"})
	require.NoError(t, rootCmd.Execute())

	out := stdout.String()
	assert.NotContains(t, out, "> ", "no prompt for non-terminal input")
	assert.Contains(t, out, "A (0, 0)")
	assert.NotContains(t, out, "B (100, 0)")
	assert.Contains(t, stderr.String(), "Error: ")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("")))

	f, err := os.CreateTemp(t.TempDir(), "in")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}
