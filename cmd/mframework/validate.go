package main

import (
	"os"

	"github.com/aretw0/mframework/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <spec> [document]",
	Short: "Check a spec and optionally a model document",
	Long:  `Compiles the spec. When a model document (.json, .yaml) is given, every value is validated and every missing required feature or property is reported.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var docPath string
		if len(args) > 1 {
			docPath = args[1]
		}
		return cli.RunValidate(os.Stdout, options(cmd, args[0]), docPath)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
