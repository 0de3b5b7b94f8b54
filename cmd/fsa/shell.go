package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsa-sketch/internal/session"
	"github.com/ha1tch/fsa-sketch/pkg/render"
)

var (
	shellFlags buildFlags
	shellOut   string
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Edit and simulate an automaton interactively",
	Long: `Reads session commands from standard input, one per line. With --output
the diagram is rewritten after every command, so an image viewer that reloads
on change shows the canvas live. Type "help" for the command list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var live *liveCanvas
		var driver *render.Driver
		if shellOut != "" {
			var err error
			if live, err = newLiveCanvas(shellOut); err != nil {
				return err
			}
			driver = render.NewDriver(live.sink)
		}

		out := cmd.OutOrStdout()
		s, err := shellFlags.session(driver, out)
		if err != nil {
			return err
		}
		s.Redraw()
		if err := live.save(); err != nil {
			return err
		}

		in := cmd.InOrStdin()
		interactive := isTerminal(in)
		if interactive {
			fmt.Fprintln(out, `fsa shell. Type "help" for commands, "quit" to leave.`)
		}

		scanner := bufio.NewScanner(in)
		for {
			if interactive {
				fmt.Fprint(out, "> ")
			}
			if !scanner.Scan() {
				break
			}
			err := s.Exec(scanner.Text())
			if errors.Is(err, session.ErrQuit) {
				break
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				continue
			}
			if err := live.save(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
		}
		return scanner.Err()
	},
}

// isTerminal reports whether r is a file attached to a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// liveCanvas is a sink whose drawing is rewritten to a file on demand.
type liveCanvas struct {
	path  string
	sink  render.Sink
	write func(io.Writer) error
}

func newLiveCanvas(path string) (*liveCanvas, error) {
	format, err := render.FormatFor(path)
	if err != nil {
		return nil, err
	}
	if format == "png" {
		c, err := render.NewPNGCanvas(render.DefaultPNGOptions())
		if err != nil {
			return nil, err
		}
		return &liveCanvas{path: path, sink: c, write: c.Encode}, nil
	}
	c := render.NewSVGCanvas(render.DefaultSVGOptions())
	return &liveCanvas{path: path, sink: c, write: func(w io.Writer) error {
		_, err := c.WriteTo(w)
		return err
	}}, nil
}

// save writes the current drawing. A nil canvas does nothing.
func (l *liveCanvas) save() error {
	if l == nil {
		return nil
	}
	f, err := os.Create(l.path)
	if err != nil {
		return err
	}
	if err := l.write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(shellCmd)
	addBuildFlags(shellCmd, &shellFlags)
	shellCmd.Flags().StringVarP(&shellOut, "output", "o", "", "Keep this .svg or .png file in sync with the canvas")
}
