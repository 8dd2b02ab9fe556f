package main

import (
	"os"

	"github.com/aretw0/mframework/internal/cli"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <spec>",
	Short: "Export the OpenAPI schema of model documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunSchema(os.Stdout, options(cmd, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
