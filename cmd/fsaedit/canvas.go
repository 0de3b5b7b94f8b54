package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/fsa-sketch/pkg/geometry"
)

// One terminal cell covers this many canvas units.
const (
	cellW = 10.0
	cellH = 20.0
)

// termCanvas is a render.Sink that draws into a rectangle of a tcell screen.
// Canvas point (x, y) lands in cell (x/cellW - offX, y/cellH - offY).
type termCanvas struct {
	screen        tcell.Screen
	width, height int // drawable cells
	offX, offY    int // viewport origin, in cells
	highlight     string
	selected      string
}

func newTermCanvas(s tcell.Screen) *termCanvas {
	return &termCanvas{screen: s}
}

// resize sets the drawable area, called before each redraw.
func (c *termCanvas) resize(w, h int) {
	c.width, c.height = w, h
}

// cell maps a canvas point to screen coordinates.
func (c *termCanvas) cell(p geometry.Point) (int, int) {
	return int(math.Floor(p.X/cellW)) - c.offX, int(math.Floor(p.Y/cellH)) - c.offY
}

// point maps a screen cell to the canvas point at its centre.
func (c *termCanvas) point(x, y int) geometry.Point {
	return geometry.Point{
		X: (float64(x+c.offX) + 0.5) * cellW,
		Y: (float64(y+c.offY) + 0.5) * cellH,
	}
}

func (c *termCanvas) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.screen.SetContent(x, y, r, nil, style)
}

// text writes s starting at cell (x, y), clipped to the canvas.
func (c *termCanvas) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.set(x, y, r, style)
		x += runewidth.RuneWidth(r)
	}
}

// centred writes s so its middle falls on cell (x, y).
func (c *termCanvas) centred(x, y int, s string, style tcell.Style) {
	c.text(x-runewidth.StringWidth(s)/2, y, s, style)
}

func (c *termCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.screen.SetContent(x, y, ' ', nil, styleDefault)
		}
	}
}

func (c *termCanvas) SetHighlight(name string) { c.highlight = name }

// stateLabel is how a state is written on the canvas.
func stateLabel(name string, final bool) string {
	if final {
		return "((" + name + "))"
	}
	return "(" + name + ")"
}

func (c *termCanvas) DrawState(name string, x, y float64, initial, final bool) {
	label := stateLabel(name, final)

	style := styleState
	switch {
	case name == c.highlight:
		style = styleStateActive
	case name == c.selected:
		style = styleStateSel
	case initial:
		style = styleStateInit
	case final:
		style = styleStateAcc
	}

	cx, cy := c.cell(geometry.Point{X: x, Y: y})
	left := cx - runewidth.StringWidth(label)/2
	if initial {
		c.set(left-1, cy, '→', styleStateInit)
	}
	c.text(left, cy, label, style)
}

func (c *termCanvas) DrawTransitionLine(p1, p2, label geometry.Point, symbol string) {
	x1, y1 := p1.X/cellW-float64(c.offX), p1.Y/cellH-float64(c.offY)
	x2, y2 := p2.X/cellW-float64(c.offX), p2.Y/cellH-float64(c.offY)
	dx, dy := x2-x1, y2-y1

	glyph := lineGlyph(dx, dy)
	if cx1, cy1, cx2, cy2, ok := clipSegment(x1, y1, x2, y2, float64(c.width), float64(c.height)); ok {
		sx, sy := cx2-cx1, cy2-cy1
		steps := int(math.Ceil(math.Max(math.Abs(sx), math.Abs(sy)) * 2))
		for i := 0; i < steps; i++ {
			t := float64(i) / float64(steps)
			c.set(int(math.Floor(cx1+sx*t)), int(math.Floor(cy1+sy*t)), glyph, styleTrans)
		}
	}
	ex, ey := c.cell(p2)
	c.set(ex, ey, arrowGlyph(dx, dy), styleTrans)

	lx, ly := c.cell(label)
	c.centred(lx, ly, symbol, styleTransLabel)
}

func (c *termCanvas) DrawSelfLoop(path geometry.Path, label geometry.Point, symbol string) {
	pts := path.Flatten(8)
	for _, p := range pts {
		x, y := c.cell(p)
		c.set(x, y, '·', styleTrans)
	}
	if n := len(pts); n >= 2 {
		d := pts[n-1].Sub(pts[n-2])
		x, y := c.cell(pts[n-1])
		c.set(x, y, arrowGlyph(d.X/cellW, d.Y/cellH), styleTrans)
	}

	lx, ly := c.cell(label)
	c.text(lx, ly, symbol, styleTransLabel)
}

// clipSegment clips the segment to the rectangle [0,w]x[0,h] (Liang-Barsky).
// ok is false when no part of it is inside.
func clipSegment(x1, y1, x2, y2, w, h float64) (cx1, cy1, cx2, cy2 float64, ok bool) {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x1, w - x1, y1, h - y1}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}

// lineGlyph picks a box-drawing rune for a segment with the given cell-space
// direction. Y grows downward.
func lineGlyph(dx, dy float64) rune {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ay < ax/2:
		return '─'
	case ax < ay/2:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// arrowGlyph picks the arrowhead for the dominant direction.
func arrowGlyph(dx, dy float64) rune {
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if dy >= 0 {
		return '▼'
	}
	return '▲'
}
