// Raster rendering for automaton diagrams.
// Draws at 4x into an RGBA buffer and downsamples on Encode.

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/fsa-sketch/pkg/geometry"
)

// Supersample is the factor the canvas is drawn at before downsampling.
const Supersample = 4

// PNGOptions configures raster output.
type PNGOptions struct {
	Width     int
	Height    int
	FontSize  int
	LabelSize int
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:     800,
		Height:    600,
		FontSize:  14,
		LabelSize: 12,
	}
}

var (
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorBlack      = color.RGBA{51, 51, 51, 255}    // #333
	colorGray       = color.RGBA{102, 102, 102, 255} // #666
	colorInitial    = color.RGBA{232, 245, 233, 255} // #e8f5e9
	colorInitialBdr = color.RGBA{46, 125, 50, 255}   // #2e7d32
	colorAccepting  = color.RGBA{255, 243, 224, 255} // #fff3e0
	colorAcceptBdr  = color.RGBA{230, 81, 0, 255}    // #e65100
	colorBoth       = color.RGBA{227, 242, 253, 255} // #e3f2fd
	colorBothBdr    = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorActive     = color.RGBA{255, 245, 157, 255} // #fff59d
)

// PNGCanvas is a Sink that rasterises onto an image.
type PNGCanvas struct {
	opts      PNGOptions
	img       *image.RGBA
	scale     float64
	lineWidth float64
	stateFace font.Face
	labelFace font.Face
	highlight string
}

// NewPNGCanvas returns a white canvas. Zero option fields take defaults.
func NewPNGCanvas(opts PNGOptions) (*PNGCanvas, error) {
	def := DefaultPNGOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.LabelSize <= 0 {
		opts.LabelSize = opts.FontSize - 2
	}

	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	newFace := func(size int) (font.Face, error) {
		// No hinting; supersampling smooths the glyphs instead.
		return opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    float64(size * Supersample),
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}
	stateFace, err := newFace(opts.FontSize)
	if err != nil {
		return nil, fmt.Errorf("state font: %w", err)
	}
	labelFace, err := newFace(opts.LabelSize)
	if err != nil {
		return nil, fmt.Errorf("label font: %w", err)
	}

	c := &PNGCanvas{
		opts:      opts,
		img:       image.NewRGBA(image.Rect(0, 0, opts.Width*Supersample, opts.Height*Supersample)),
		scale:     Supersample,
		lineWidth: 2 * Supersample,
		stateFace: stateFace,
		labelFace: labelFace,
	}
	c.Clear()
	return c, nil
}

func (c *PNGCanvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)
}

func (c *PNGCanvas) SetHighlight(name string) { c.highlight = name }

func (c *PNGCanvas) DrawState(name string, x, y float64, initial, final bool) {
	s := c.scale
	cx, cy, r := x*s, y*s, geometry.StateRadius*s

	fill, border := colorWhite, colorBlack
	switch {
	case initial && final:
		fill, border = colorBoth, colorBothBdr
	case initial:
		fill, border = colorInitial, colorInitialBdr
	case final:
		fill, border = colorAccepting, colorAcceptBdr
	}
	if name == c.highlight {
		fill = colorActive
	}

	if initial {
		c.arrowLine(cx-r-30*s, cy, cx-r-2*s, cy, colorBlack)
	}
	c.circle(cx, cy, r, fill, border)
	if final {
		c.circle(cx, cy, r-4*s, color.Transparent, border)
	}
	c.text(c.stateFace, cx, cy, name, colorBlack)
}

func (c *PNGCanvas) DrawTransitionLine(p1, p2, label geometry.Point, symbol string) {
	s := c.scale
	c.arrowLine(p1.X*s, p1.Y*s, p2.X*s, p2.Y*s, colorBlack)
	c.text(c.labelFace, label.X*s, label.Y*s, symbol, colorBlack)
}

func (c *PNGCanvas) DrawSelfLoop(path geometry.Path, label geometry.Point, symbol string) {
	s := c.scale
	pts := path.Flatten(24)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if i == len(pts)-1 {
			c.arrowLine(a.X*s, a.Y*s, b.X*s, b.Y*s, colorGray)
			break
		}
		c.line(a.X*s, a.Y*s, b.X*s, b.Y*s, colorGray)
	}
	c.text(c.labelFace, label.X*s, label.Y*s, symbol, colorBlack)
}

// Image returns the downsampled drawing.
func (c *PNGCanvas) Image() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, c.opts.Width, c.opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), c.img, c.img.Bounds(), draw.Over, nil)
	return out
}

// Encode writes the drawing to w as PNG.
func (c *PNGCanvas) Encode(w io.Writer) error {
	return png.Encode(w, c.Image())
}

// circle draws a filled circle with a thick outline.
func (c *PNGCanvas) circle(cx, cy, r float64, fill, stroke color.Color) {
	if fill != color.Transparent {
		for dy := -r; dy <= r; dy++ {
			ext := math.Sqrt(r*r - dy*dy)
			for dx := -ext; dx <= ext; dx++ {
				c.img.Set(int(cx+dx), int(cy+dy), fill)
			}
		}
	}

	half := c.lineWidth / 2
	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		nx, ny := math.Cos(angle), math.Sin(angle)
		for t := -half; t <= half; t += 0.5 {
			c.img.Set(int(cx+nx*(r+t)), int(cy+ny*(r+t)), stroke)
		}
	}
}

// line draws a thick straight segment.
func (c *PNGCanvas) line(x1, y1, x2, y2 float64, col color.Color) {
	dx, dy := x2-x1, y2-y1
	half := c.lineWidth / 2

	dist := math.Hypot(dx, dy)
	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				c.img.Set(int(x1+tx), int(y1+ty), col)
			}
		}
		return
	}

	steps := math.Max(math.Abs(dx), math.Abs(dy))
	perpX, perpY := -dy/dist, dx/dist
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		px, py := x1+dx*t, y1+dy*t
		for off := -half; off <= half; off += 0.5 {
			c.img.Set(int(px+perpX*off), int(py+perpY*off), col)
		}
	}
}

// arrowLine draws a segment with a filled arrowhead at (x2, y2).
func (c *PNGCanvas) arrowLine(x1, y1, x2, y2 float64, col color.Color) {
	c.line(x1, y1, x2, y2, col)

	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	if dist < 1e-9 {
		return
	}
	nx, ny := dx/dist, dy/dist

	arrowLen := 8.0 * c.scale
	arrowWidth := 4.0 * c.scale
	ax1 := x2 - nx*arrowLen + ny*arrowWidth
	ay1 := y2 - ny*arrowLen - nx*arrowWidth
	ax2 := x2 - nx*arrowLen - ny*arrowWidth
	ay2 := y2 - ny*arrowLen + nx*arrowWidth

	for t := 0.0; t <= 1.0; t += 0.05 {
		c.line(x2, y2, ax1+(ax2-ax1)*t, ay1+(ay2-ay1)*t, col)
	}
}

// text draws s horizontally centred on x with its caps roughly centred on y.
func (c *PNGCanvas) text(face font.Face, x, y float64, s string, col color.Color) {
	width := font.MeasureString(face, s).Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(x) - width/2),
			Y: fixed.I(int(y) + int(float64(ascent)*0.35)),
		},
	}
	d.DrawString(s)
}
