package main

import (
	"fmt"

	"github.com/aretw0/stanza"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stanza",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stanza version %s\n", stanza.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
