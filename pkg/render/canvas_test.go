package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsa-sketch/pkg/fsa"
)

func TestSVGCanvasDocument(t *testing.T) {
	c := NewSVGCanvas(SVGOptions{Title: "demo <1>"})
	d := NewDriver(c)
	d.Highlight("B")
	d.Draw(sample(t))

	out := c.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0"`))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
	assert.Contains(t, out, `width="800" height="600"`)
	assert.Contains(t, out, "demo &lt;1&gt;")

	assert.Contains(t, out, `<circle cx="20.0" cy="20.0" r="20.0" class="state-initial"/>`)
	assert.Contains(t, out, `class="state-accepting state-active"`)
	assert.Equal(t, 1, strings.Count(out, `class="transition-self"`))
	assert.Contains(t, out, `<path d="M 120.0 -28.0`)

	// Transitions come before states in the document.
	assert.Less(t, strings.Index(out, `class="transition-self"`), strings.Index(out, "<circle"))
}

func TestSVGCanvasEscapesNames(t *testing.T) {
	a := fsa.New()
	require.NoError(t, a.AddState("<q&0>", 50, 50))
	require.NoError(t, a.AddTransition("<q&0>", "<q&0>", "\""))

	c := NewSVGCanvas(SVGOptions{})
	NewDriver(c).Draw(a)
	out := c.String()
	assert.Contains(t, out, "&lt;q&amp;0&gt;")
	assert.NotContains(t, out, "<q&0>")
	assert.Contains(t, out, "&#34;")
}

func TestSVGCanvasClear(t *testing.T) {
	c := NewSVGCanvas(SVGOptions{})
	d := NewDriver(c)
	d.Draw(sample(t))
	d.Draw(fsa.New())

	assert.NotContains(t, c.String(), "<circle")
}

func TestSVGCanvasWriteTo(t *testing.T) {
	c := NewSVGCanvas(SVGOptions{Width: 300, Height: 200})
	NewDriver(c).Draw(sample(t))

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, c.String(), buf.String())
}

func TestPNGCanvasEncode(t *testing.T) {
	c, err := NewPNGCanvas(PNGOptions{Width: 240, Height: 120})
	require.NoError(t, err)

	a := fsa.New()
	require.NoError(t, a.AddState("A", 40, 40))
	require.NoError(t, a.AddState("B", 160, 40))
	a.SetInitial("A")
	require.NoError(t, a.AddTransition("A", "B", "a"))

	d := NewDriver(c)
	d.Highlight("B")
	d.Draw(a)

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())

	r, g, b, _ := img.At(2, 2).RGBA()
	assert.InDelta(t, 255, r>>8, 1, "background should be white")
	assert.InDelta(t, 255, g>>8, 1)
	assert.InDelta(t, 255, b>>8, 1)

	// Inside B's circle, clear of its label: the highlight fill.
	r, g, b, _ = img.At(180-10, 60+10).RGBA()
	assert.InDelta(t, 255, r>>8, 6)
	assert.InDelta(t, 245, g>>8, 6)
	assert.InDelta(t, 157, b>>8, 12)

	// Inside A's circle: the initial-state fill.
	r, g, b, _ = img.At(60-10, 60+10).RGBA()
	assert.InDelta(t, 232, r>>8, 6)
	assert.InDelta(t, 245, g>>8, 6)
	assert.InDelta(t, 233, b>>8, 6)
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]string{"a.svg": "svg", "b.PNG": "png", "dir/c.d.svg": "svg"} {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	for _, path := range []string{"a.gif", "noext"} {
		_, err := FormatFor(path)
		assert.Error(t, err, path)
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	a := sample(t)

	svgPath := filepath.Join(dir, "out.svg")
	require.NoError(t, ExportFile(a, svgPath, ExportOptions{Width: 320, Height: 200, Highlight: "A"}))
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `width="320" height="200"`)
	assert.Contains(t, string(data), "state-initial state-active")

	pngPath := filepath.Join(dir, "out.png")
	require.NoError(t, ExportFile(a, pngPath, ExportOptions{Width: 320, Height: 200}))
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)

	assert.Error(t, ExportFile(a, filepath.Join(dir, "out.bmp"), ExportOptions{}))
	_, err = os.Stat(filepath.Join(dir, "out.bmp"))
	assert.True(t, os.IsNotExist(err), "unsupported formats must not create a file")
}
