// ABOUTME: Version command for the mood CLI.
// ABOUTME: Prints the build version set through ldflags.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the mood version",
	Annotations: noStore,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mood %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
