package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsa-sketch/pkg/geometry"
)

func newTestCanvas(t *testing.T, w, h int) (*termCanvas, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)

	c := newTermCanvas(screen)
	c.resize(w, h)
	c.Clear()
	return c, screen
}

func TestDrawTransitionLineFarAway(t *testing.T) {
	c, screen := newTestCanvas(t, 80, 24)

	start := time.Now()
	c.DrawTransitionLine(geometry.Point{X: 5, Y: 10}, geometry.Point{X: 1e12, Y: 10}, geometry.Point{X: 5e11, Y: 5}, "a")
	assert.Less(t, time.Since(start), time.Second)

	for _, x := range []int{0, 40, 79} {
		r, _, _, _ := screen.GetContent(x, 0)
		assert.Equal(t, '─', r, "cell %d", x)
	}
	r, _, _, _ := screen.GetContent(0, 1)
	assert.Equal(t, ' ', r)
}

func TestDrawTransitionLineOffScreen(t *testing.T) {
	c, screen := newTestCanvas(t, 20, 10)
	c.DrawTransitionLine(geometry.Point{X: -1e12, Y: 1e12}, geometry.Point{X: -1e12 + 50, Y: 1e12}, geometry.Point{X: -1e12, Y: 1e12}, "a")

	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			require.Equal(t, ' ', r, "cell %d,%d", x, y)
		}
	}
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		want           [4]float64
		ok             bool
	}{
		{"inside", 1, 1, 5, 5, [4]float64{1, 1, 5, 5}, true},
		{"right edge", 5, 2, 1e12, 2, [4]float64{5, 2, 10, 2}, true},
		{"crosses", -10, 5, 20, 5, [4]float64{0, 5, 10, 5}, true},
		{"diagonal", -5, -5, 15, 15, [4]float64{0, 0, 10, 10}, true},
		{"left of", -20, 1, -10, 1, [4]float64{}, false},
		{"below", 1, 20, 5, 30, [4]float64{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x1, y1, x2, y2, ok := clipSegment(tc.x1, tc.y1, tc.x2, tc.y2, 10, 10)
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tc.want[0], x1, 1e-9)
			assert.InDelta(t, tc.want[1], y1, 1e-9)
			assert.InDelta(t, tc.want[2], x2, 1e-9)
			assert.InDelta(t, tc.want[3], y2, 1e-9)
		})
	}
}
