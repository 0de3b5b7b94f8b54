// Geometric primitives for automaton diagrams.
// Computes trimmed transition lines and self-loop arcs from state centres.
// All functions are pure; the constants fix the diagram's proportions.

package geometry

import "math"

const (
	// StateRadius is the drawn radius of a state circle.
	StateRadius = 20.0

	// LinePadding is how far each end of a transition line is pulled in
	// from a state centre, so arrows stop just outside the circle.
	LinePadding = StateRadius + 2

	// LabelLift raises a transition label above its line.
	LabelLift = 5.0

	// LoopRadius is the radius of the self-loop circle drawn around the
	// state's top point.
	LoopRadius = 28.0

	// DegenerateStub is the length of the fallback line drawn when both
	// ends of a transition coincide.
	DegenerateStub = 12.0

	epsilon = 1e-9
)

// Point represents a 2D coordinate. Y grows downward.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p*k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Len returns the distance from the origin.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return q.Sub(p).Len() }

// Line is a transition segment between two distinct states.
type Line struct {
	P1, P2 Point // trimmed endpoints; the arrowhead goes at P2
	Label  Point // label anchor
}

// LineBetween computes the drawable segment from one state centre to another.
//
// Each end is pulled in by LinePadding along the connecting unit vector. When
// the circles overlap the pull-in is limited to half the distance so the
// segment never flips direction. Coincident centres produce a short stub to
// the right of the circle instead of dividing by zero.
func LineBetween(from, to Point) Line {
	d := to.Sub(from)
	dist := d.Len()

	if dist < epsilon {
		p1 := Point{from.X + StateRadius, from.Y}
		p2 := Point{p1.X + DegenerateStub, p1.Y}
		return Line{
			P1:    p1,
			P2:    p2,
			Label: Point{(p1.X + p2.X) / 2, from.Y - LabelLift},
		}
	}

	pad := math.Min(LinePadding, dist/2)
	u := d.Scale(1 / dist)
	mid := from.Add(d.Scale(0.5))

	return Line{
		P1:    from.Add(u.Scale(pad)),
		P2:    to.Sub(u.Scale(pad)),
		Label: Point{mid.X, mid.Y - LabelLift},
	}
}

// Loop is a self-loop: a closed path plus its label anchor.
type Loop struct {
	Path  Path
	Label Point
}

// SelfLoopArc builds the self-loop for a state centred at center.
//
// The loop is four clockwise quarter-circle arcs of LoopRadius around the
// state's top point, starting and ending at the loop's apex. The label sits
// inside the loop's upper-right quadrant, which is always outside the state.
func SelfLoopArc(center Point) Loop {
	top := Point{center.X, center.Y - StateRadius}
	r := LoopRadius

	p := Path{Start: Point{top.X, top.Y - r}}
	p.QuarterTo(r, Point{top.X + r, top.Y})
	p.QuarterTo(r, Point{top.X, top.Y + r})
	p.QuarterTo(r, Point{top.X - r, top.Y})
	p.QuarterTo(r, p.Start)

	return Loop{
		Path:  p,
		Label: Point{top.X + r - 10, top.Y - r + 10},
	}
}

// InsideState reports whether p lies within the circle of a state centred
// at center.
func InsideState(center, p Point) bool {
	return center.Dist(p) <= StateRadius
}

// Offset shifts the line sideways by d along its left-hand normal. Two lines
// drawn in opposite directions between the same states separate when both
// are offset by the same positive d.
func (l Line) Offset(d float64) Line {
	v := l.P2.Sub(l.P1)
	n := v.Len()
	if n < epsilon {
		return l
	}
	shift := Point{v.Y / n * d, -v.X / n * d}
	return Line{P1: l.P1.Add(shift), P2: l.P2.Add(shift), Label: l.Label.Add(shift)}
}
