// Package geometry computes backend-neutral drawing primitives for automaton
// diagrams: trimmed lines between states and closed self-loop paths.
package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Arc is an elliptical arc segment in SVG endpoint parameterisation.
type Arc struct {
	RX, RY   float64
	Rotation float64 // x-axis rotation in degrees
	LargeArc bool
	Sweep    bool // true = positive-angle direction (clockwise on screen)
	End      Point
}

// Path is a piecewise curve made of arc segments starting at Start.
type Path struct {
	Start    Point
	Segments []Arc
}

// QuarterTo appends a clockwise circular arc of radius r ending at end.
func (p *Path) QuarterTo(r float64, end Point) {
	p.Segments = append(p.Segments, Arc{RX: r, RY: r, Sweep: true, End: end})
}

// End returns the last point of the path.
func (p Path) End() Point {
	if len(p.Segments) == 0 {
		return p.Start
	}
	return p.Segments[len(p.Segments)-1].End
}

// Closed reports whether the path returns to its start.
func (p Path) Closed() bool {
	return len(p.Segments) > 0 && p.End().Dist(p.Start) < 1e-6
}

// SVG returns the path as an SVG "d" attribute value.
func (p Path) SVG() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("M %.1f %.1f", p.Start.X, p.Start.Y))
	for _, a := range p.Segments {
		sb.WriteString(fmt.Sprintf(" A %.1f %.1f %.0f %d %d %.1f %.1f",
			a.RX, a.RY, a.Rotation, flag(a.LargeArc), flag(a.Sweep), a.End.X, a.End.Y))
	}
	return sb.String()
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Flatten approximates the path with a polyline, using steps points per
// segment. The result starts at Start and ends at End.
func (p Path) Flatten(steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	pts := []Point{p.Start}
	from := p.Start
	for _, a := range p.Segments {
		pts = append(pts, a.flatten(from, steps)...)
		from = a.End
	}
	return pts
}

// Bounds returns the corners of the bounding box of the flattened path.
func (p Path) Bounds() (lo, hi Point) {
	pts := p.Flatten(16)
	lo, hi = pts[0], pts[0]
	for _, q := range pts[1:] {
		lo.X = math.Min(lo.X, q.X)
		lo.Y = math.Min(lo.Y, q.Y)
		hi.X = math.Max(hi.X, q.X)
		hi.Y = math.Max(hi.Y, q.Y)
	}
	return lo, hi
}

// flatten samples the arc from start (exclusive) to a.End (inclusive).
// Endpoint-to-centre conversion follows the SVG implementation notes (F.6.5).
func (a Arc) flatten(start Point, steps int) []Point {
	if start.Dist(a.End) < epsilon {
		return nil
	}
	rx, ry := math.Abs(a.RX), math.Abs(a.RY)
	if rx < epsilon || ry < epsilon {
		return []Point{a.End}
	}

	phi := a.Rotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx := (start.X - a.End.X) / 2
	dy := (start.Y - a.End.Y) / 2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	// Scale radii up when the endpoints are too far apart.
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(math.Max(0, num/den))
	if a.LargeArc == a.Sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	cx := cosPhi*cx1 - sinPhi*cy1 + (start.X+a.End.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (start.Y+a.End.Y)/2

	theta1 := vecAngle(1, 0, (x1-cx1)/rx, (y1-cy1)/ry)
	delta := vecAngle((x1-cx1)/rx, (y1-cy1)/ry, (-x1-cx1)/rx, (-y1-cy1)/ry)
	if !a.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if a.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	pts := make([]Point, 0, steps)
	for i := 1; i < steps; i++ {
		theta := theta1 + delta*float64(i)/float64(steps)
		ct, st := math.Cos(theta), math.Sin(theta)
		pts = append(pts, Point{
			X: cosPhi*rx*ct - sinPhi*ry*st + cx,
			Y: sinPhi*rx*ct + cosPhi*ry*st + cy,
		})
	}
	// Land exactly on the endpoint.
	return append(pts, a.End)
}

func vecAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
