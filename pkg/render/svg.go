package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/ha1tch/fsa-sketch/pkg/geometry"
)

// SVGOptions controls SVG output.
type SVGOptions struct {
	Width     int    // canvas width in pixels
	Height    int    // canvas height in pixels
	Title     string // diagram title
	FontSize  int    // font size for state labels
	LabelSize int    // font size for transition labels (0 = FontSize - 2)
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:    800,
		Height:   600,
		FontSize: 14,
	}
}

// SVGCanvas is a Sink that accumulates an SVG document.
type SVGCanvas struct {
	opts      SVGOptions
	edges     strings.Builder
	nodes     strings.Builder
	highlight string
}

// NewSVGCanvas returns an empty canvas. Zero option fields take defaults.
func NewSVGCanvas(opts SVGOptions) *SVGCanvas {
	def := DefaultSVGOptions()
	if opts.Width == 0 {
		opts.Width = def.Width
	}
	if opts.Height == 0 {
		opts.Height = def.Height
	}
	if opts.FontSize == 0 {
		opts.FontSize = def.FontSize
	}
	if opts.LabelSize == 0 {
		opts.LabelSize = opts.FontSize - 2
	}
	return &SVGCanvas{opts: opts}
}

func (c *SVGCanvas) Clear() {
	c.edges.Reset()
	c.nodes.Reset()
}

func (c *SVGCanvas) SetHighlight(name string) { c.highlight = name }

func (c *SVGCanvas) DrawState(name string, x, y float64, initial, final bool) {
	sb := &c.nodes
	r := geometry.StateRadius

	class := "state"
	switch {
	case initial && final:
		class = "state-both"
	case initial:
		class = "state-initial"
	case final:
		class = "state-accepting"
	}
	if name == c.highlight {
		class += " state-active"
	}

	if initial {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="transition"/>
`, x-r-30, y, x-r-2, y))
	}
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" class="%s"/>
`, x, y, r, class))
	if final {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" class="%s" fill="none"/>
`, x, y, r-4, class))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="state-label">%s</text>
`, x, y, html.EscapeString(name)))
}

func (c *SVGCanvas) DrawTransitionLine(p1, p2, label geometry.Point, symbol string) {
	c.edges.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="transition"/>
`, p1.X, p1.Y, p2.X, p2.Y))
	c.label(label, symbol)
}

func (c *SVGCanvas) DrawSelfLoop(path geometry.Path, label geometry.Point, symbol string) {
	c.edges.WriteString(fmt.Sprintf(`<path d="%s" class="transition-self"/>
`, path.SVG()))
	c.label(label, symbol)
}

func (c *SVGCanvas) label(p geometry.Point, text string) {
	c.edges.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="trans-label" text-anchor="middle">%s</text>
`, p.X, p.Y, html.EscapeString(text)))
}

// String returns the complete SVG document for the current drawing.
func (c *SVGCanvas) String() string {
	opts := c.opts
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<defs>
  <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
    <polygon points="0 0, 10 3.5, 0 7" fill="#333"/>
  </marker>
  <marker id="arrowhead-self" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
    <polygon points="0 0, 10 3.5, 0 7" fill="#666"/>
  </marker>
</defs>
<style>
  .state { fill: white; stroke: #333; stroke-width: 2; }
  .state-initial { fill: #e8f5e9; stroke: #2e7d32; stroke-width: 2; }
  .state-accepting { fill: #fff3e0; stroke: #e65100; stroke-width: 2; }
  .state-both { fill: #e3f2fd; stroke: #1565c0; stroke-width: 2; }
  .state-active { fill: #fff59d; stroke-width: 3; }
  .state-label { font-family: sans-serif; font-size: %dpx; text-anchor: middle; dominant-baseline: middle; }
  .transition { fill: none; stroke: #333; stroke-width: 1.5; marker-end: url(#arrowhead); }
  .transition-self { fill: none; stroke: #666; stroke-width: 1.5; marker-end: url(#arrowhead-self); }
  .trans-label { font-family: sans-serif; font-size: %dpx; fill: #333; }
  .title { font-family: sans-serif; font-size: %dpx; font-weight: bold; text-anchor: middle; }
</style>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.FontSize, opts.LabelSize, opts.FontSize+4))

	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>
`, opts.Width, opts.Height))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="25" class="title">%s</text>
`, opts.Width/2, html.EscapeString(opts.Title)))
	}

	sb.WriteString(c.edges.String())
	sb.WriteString(c.nodes.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteTo writes the SVG document to w.
func (c *SVGCanvas) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.String())
	return int64(n), err
}
