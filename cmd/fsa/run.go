package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsa-sketch/internal/session"
	"github.com/ha1tch/fsa-sketch/pkg/fsa"
)

var runFlags buildFlags

var runCmd = &cobra.Command{
	Use:   "run [INPUT]",
	Short: "Walk an input string through the automaton",
	Long: `Builds the automaton described by the flags, feeds INPUT to it one
character at a time from the initial state and prints each step followed by
the verdict. Exits non-zero unless the walk ends in a final state.`,
	Example: `  fsa run -s A -s B -i A -f B -t A,B,a -t B,A,b abab`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := runFlags.session(nil, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		input := ""
		if len(args) == 1 {
			input = args[0]
		}

		out := cmd.OutOrStdout()
		n := 0
		res, err := fsa.Simulate(s.Automaton(), input, func(st fsa.Step) {
			n++
			fmt.Fprintf(out, "  %d: %s --%s--> %s\n", n, st.From, st.Symbol, st.To)
		})
		if res.Status == fsa.StatusError {
			return err
		}
		logger.Debug("simulation finished", "input", input, "status", res.Status, "steps", n)

		printVerdict(out, res, err)
		if res.Status != fsa.StatusAccepted || !res.EndsInFinal {
			return errNotAccepted
		}
		return nil
	},
}

// printVerdict writes the walk and a coloured verdict line.
func printVerdict(w io.Writer, res fsa.Result, err error) {
	p := termenv.EnvColorProfile()
	colour := "#ef4444"
	if res.Status == fsa.StatusAccepted && res.EndsInFinal {
		colour = "#22c55e"
	} else if res.Status == fsa.StatusAccepted {
		colour = "#f59e0b"
	}
	fmt.Fprintf(w, "Walk: %s\n", session.FormatWalk(res))
	fmt.Fprintln(w, termenv.String(session.FormatVerdict(res, err)).Foreground(p.Color(colour)).Bold())
}

func init() {
	rootCmd.AddCommand(runCmd)
	addBuildFlags(runCmd, &runFlags)
}
