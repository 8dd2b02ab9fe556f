package main

import (
	"os"

	"github.com/aretw0/mframework/internal/cli"
	"github.com/spf13/cobra"
)

// docsCmd represents the docs command
var docsCmd = &cobra.Command{
	Use:   "docs <spec>",
	Short: "Render the documentation of a spec",
	Long:  `Renders user documentation for every feature and property of a spec, as Markdown (rendered in the terminal) or reStructuredText.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		raw, _ := cmd.Flags().GetBool("raw")
		return cli.RunDocs(os.Stdout, options(cmd, args[0]), format, raw)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringP("format", "f", "markdown", "Output format (markdown|rst)")
	docsCmd.Flags().Bool("raw", false, "Print markdown source even on a terminal")
}
