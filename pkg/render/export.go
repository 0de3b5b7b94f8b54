package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/fsa-sketch/pkg/fsa"
)

// ExportOptions controls a one-shot diagram export.
type ExportOptions struct {
	Width, Height int
	Title         string // SVG only
	Highlight     string
}

// FormatFor returns "svg" or "png" for a file name, or an error for any
// other extension.
func FormatFor(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		return "svg", nil
	case ".png":
		return "png", nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want .svg or .png)", ext)
	}
}

// Export draws a onto a fresh canvas of the given format and writes it to w.
func Export(a *fsa.Automaton, w io.Writer, format string, opts ExportOptions) error {
	switch format {
	case "svg":
		canvas := NewSVGCanvas(SVGOptions{Width: opts.Width, Height: opts.Height, Title: opts.Title})
		drawOn(canvas, a, opts.Highlight)
		_, err := canvas.WriteTo(w)
		return err
	case "png":
		canvas, err := NewPNGCanvas(PNGOptions{Width: opts.Width, Height: opts.Height})
		if err != nil {
			return err
		}
		drawOn(canvas, a, opts.Highlight)
		return canvas.Encode(w)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// ExportFile writes the diagram to path in the format its extension names.
func ExportFile(a *fsa.Automaton, path string, opts ExportOptions) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(a, file, format, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// drawOn renders a onto s with the given state highlighted.
func drawOn(s Sink, a *fsa.Automaton, highlight string) {
	d := NewDriver(s)
	d.Highlight(highlight)
	d.Draw(a)
}
