// Package render turns an automaton into drawing calls on a Sink. The
// geometry is computed here once so every backend draws the same diagram.
package render

import (
	"strings"

	"github.com/ha1tch/fsa-sketch/pkg/fsa"
	"github.com/ha1tch/fsa-sketch/pkg/geometry"
)

// BidiOffset is how far apart the two lines of a back-and-forth pair of
// states are drawn.
const BidiOffset = 6.0

// Sink is a drawing backend. Coordinates are canvas units with Y growing
// downward; DrawState receives the state's centre.
type Sink interface {
	Clear()
	DrawState(name string, x, y float64, initial, final bool)
	DrawTransitionLine(p1, p2, label geometry.Point, symbol string)
	DrawSelfLoop(path geometry.Path, label geometry.Point, symbol string)
	SetHighlight(name string)
}

// Center returns the centre of a state's circle from its stored top-left
// corner.
func Center(s fsa.State) geometry.Point {
	return geometry.Point{X: s.X + geometry.StateRadius, Y: s.Y + geometry.StateRadius}
}

// Driver redraws an automaton onto a sink and tracks the highlighted state.
type Driver struct {
	sink      Sink
	highlight string
}

// NewDriver returns a driver that draws onto sink.
func NewDriver(sink Sink) *Driver {
	return &Driver{sink: sink}
}

// Sink returns the driver's backend.
func (d *Driver) Sink() Sink { return d.sink }

// Highlight marks name as the active state. The empty name clears it.
// The change takes effect on the sink immediately and survives redraws.
func (d *Driver) Highlight(name string) {
	d.highlight = name
	d.sink.SetHighlight(name)
}

// Highlighted returns the active state name, if any.
func (d *Driver) Highlighted() string { return d.highlight }

// Observe highlights the destination of a simulation step. It matches
// fsa.Observer so a driver can follow a run directly.
func (d *Driver) Observe(step fsa.Step) {
	d.Highlight(step.To)
}

type pair struct{ from, to string }

// Draw clears the sink and redraws the whole automaton: transitions first,
// then states on top of them. Transitions whose endpoints no longer exist
// as states are skipped. Symbols between the same ordered pair of states
// share one line, joined with ", ".
func (d *Driver) Draw(a *fsa.Automaton) {
	d.sink.Clear()
	d.sink.SetHighlight(d.highlight)

	centres := make(map[string]geometry.Point, a.Len())
	for _, s := range a.States() {
		centres[s.Name] = Center(s)
	}

	var order []pair
	labels := make(map[pair][]string)
	for _, t := range a.Transitions() {
		if _, ok := centres[t.From]; !ok {
			continue
		}
		if _, ok := centres[t.To]; !ok {
			continue
		}
		k := pair{t.From, t.To}
		if _, seen := labels[k]; !seen {
			order = append(order, k)
		}
		labels[k] = append(labels[k], t.Symbol)
	}

	for _, k := range order {
		label := strings.Join(labels[k], ", ")
		from, to := centres[k.from], centres[k.to]

		if k.from == k.to {
			loop := geometry.SelfLoopArc(from)
			d.sink.DrawSelfLoop(loop.Path, loop.Label, label)
			continue
		}

		line := geometry.LineBetween(from, to)
		if _, bidi := labels[pair{k.to, k.from}]; bidi {
			line = line.Offset(BidiOffset)
		}
		d.sink.DrawTransitionLine(line.P1, line.P2, line.Label, label)
	}

	for _, s := range a.States() {
		c := centres[s.Name]
		d.sink.DrawState(s.Name, c.X, c.Y, a.IsInitial(s.Name), a.IsFinal(s.Name))
	}
}
