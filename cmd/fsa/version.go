package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release number printed by the version command.
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fsa",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fsa version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
