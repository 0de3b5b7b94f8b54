package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsa-sketch/internal/logging"
)

// errNotAccepted makes run exit non-zero without printing an error line;
// the verdict has already been printed.
var errNotAccepted = errors.New("input not accepted")

var logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:   "fsa",
	Short: "Sketch and simulate finite-state automata",
	Long: `fsa builds a deterministic finite-state automaton from flags or a script,
walks input strings through it and renders the diagram as SVG or PNG.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(name)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotAccepted) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}
