package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notelin"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notelin",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "notelin version %s\n", notelin.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
