package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit.",
		Args:  cobra.NoArgs,
		// Printing the version does not need a valid configuration.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "reproject %s (commit %s, built %s)\n", version, commit, buildDate)
		},
	}
}
