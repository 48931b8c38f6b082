package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bandkit/bandkit/internal/version"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bandkit",
	Run: func(_ *cobra.Command, _ []string) {
		info := version.Get()
		fmt.Printf("bandkit version %s\n", info.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
