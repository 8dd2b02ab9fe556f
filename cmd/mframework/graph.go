package main

import (
	"os"

	"github.com/aretw0/mframework/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <spec> [document]",
	Short: "Export the feature graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the features and properties of a spec. With a model document, populated and missing features are highlighted.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var docPath string
		if len(args) > 1 {
			docPath = args[1]
		}
		return cli.RunGraph(os.Stdout, options(cmd, args[0]), docPath)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
