package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/discovery/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of discoveryctl",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "discoveryctl %s (%s, %s)\n", version.Version, version.Commit, version.Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
