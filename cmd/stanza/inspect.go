package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stanza/internal/presentation/graph"
	"github.com/aretw0/stanza/pkg/chain"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <chain-id>",
	Short: "Export the top of a chain as a Mermaid diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		depth, _ := cmd.Flags().GetInt("depth")
		path, _ := cmd.Flags().GetString("path")

		app, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer app.Close()

		doc, err := app.Engine.Document(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		root, err := chain.Parse(doc)
		if err != nil {
			return fmt.Errorf("chain %s: %w", args[0], err)
		}

		var overlay *graph.Overlay
		if path != "" {
			overlay = &graph.Overlay{Path: strings.Fields(path)}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(root, depth, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Int("depth", graph.DefaultMaxDepth, "Levels of the chain to draw")
	inspectCmd.Flags().String("path", "", "Sentence to highlight, words separated by spaces")
}
