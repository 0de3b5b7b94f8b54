package render

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsa-sketch/pkg/fsa"
	"github.com/ha1tch/fsa-sketch/pkg/geometry"
)

// recorder is a Sink that logs each call as a short string.
type recorder struct {
	calls     []string
	loops     []geometry.Path
	lines     [][2]geometry.Point
	highlight string
}

func (r *recorder) Clear() {
	r.calls = append(r.calls, "clear")
}

func (r *recorder) DrawState(name string, x, y float64, initial, final bool) {
	r.calls = append(r.calls, fmt.Sprintf("state %s %.0f,%.0f i=%t f=%t", name, x, y, initial, final))
}

func (r *recorder) DrawTransitionLine(p1, p2, label geometry.Point, symbol string) {
	r.lines = append(r.lines, [2]geometry.Point{p1, p2})
	r.calls = append(r.calls, "line "+symbol)
}

func (r *recorder) DrawSelfLoop(path geometry.Path, label geometry.Point, symbol string) {
	r.loops = append(r.loops, path)
	r.calls = append(r.calls, "loop "+symbol)
}

func (r *recorder) SetHighlight(name string) {
	r.highlight = name
	r.calls = append(r.calls, "highlight "+name)
}

func sample(t *testing.T) *fsa.Automaton {
	t.Helper()
	a := fsa.New()
	require.NoError(t, a.AddState("A", 0, 0))
	require.NoError(t, a.AddState("B", 100, 0))
	a.SetInitial("A")
	a.AddFinal("B")
	require.NoError(t, a.AddTransition("A", "B", "a"))
	require.NoError(t, a.AddTransition("B", "B", "b"))
	return a
}

func TestDriverDrawOrder(t *testing.T) {
	rec := &recorder{}
	NewDriver(rec).Draw(sample(t))

	assert.Equal(t, []string{
		"clear",
		"highlight ",
		"line a",
		"loop b",
		"state A 20,20 i=true f=false",
		"state B 120,20 i=false f=true",
	}, rec.calls)
}

func TestDriverSkipsDanglingTransitions(t *testing.T) {
	a := sample(t)
	require.NoError(t, a.AddTransition("A", "ghost", "x"))
	require.NoError(t, a.AddTransition("ghost", "ghost", "y"))

	rec := &recorder{}
	NewDriver(rec).Draw(a)

	assert.NotContains(t, rec.calls, "line x")
	assert.NotContains(t, rec.calls, "loop y")
	assert.Len(t, rec.lines, 1)
	assert.Len(t, rec.loops, 1)
}

func TestDriverAfterRemoveState(t *testing.T) {
	a := sample(t)
	a.RemoveState("B")

	rec := &recorder{}
	NewDriver(rec).Draw(a)
	assert.Equal(t, []string{"clear", "highlight ", "state A 20,20 i=true f=false"}, rec.calls)
}

func TestDriverJoinsSymbolsOnSamePair(t *testing.T) {
	a := sample(t)
	require.NoError(t, a.AddTransition("A", "B", "c"))

	rec := &recorder{}
	NewDriver(rec).Draw(a)
	assert.Contains(t, rec.calls, "line a, c")
	assert.Len(t, rec.lines, 1)
}

func TestDriverSeparatesBidirectionalPairs(t *testing.T) {
	a := sample(t)
	require.NoError(t, a.AddTransition("B", "A", "z"))

	rec := &recorder{}
	NewDriver(rec).Draw(a)
	require.Len(t, rec.lines, 2)
	assert.NotEqual(t, rec.lines[0][0].Y, rec.lines[1][1].Y)
}

func TestDriverHighlight(t *testing.T) {
	rec := &recorder{}
	d := NewDriver(rec)

	d.Observe(fsa.Step{Index: 0, Symbol: "a", From: "A", To: "B"})
	assert.Equal(t, "B", rec.highlight)
	assert.Equal(t, "B", d.Highlighted())

	// Redraws keep the highlight.
	d.Draw(sample(t))
	assert.Equal(t, "highlight B", rec.calls[2])

	d.Highlight("")
	assert.Empty(t, rec.highlight)
}

func TestDriverFollowsSimulation(t *testing.T) {
	rec := &recorder{}
	d := NewDriver(rec)

	_, err := fsa.Simulate(sample(t), "ab", d.Observe)
	require.NoError(t, err)
	assert.Equal(t, []string{"highlight B", "highlight B"}, rec.calls)
}

func TestCenter(t *testing.T) {
	c := Center(fsa.State{Name: "q", X: 80, Y: 30})
	assert.Equal(t, geometry.Point{X: 100, Y: 50}, c)
}
