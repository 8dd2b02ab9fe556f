package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mframework/internal/cli"
	"github.com/aretw0/mframework/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mframework",
	Short: "mframework compiles model specifications into runtime models",
	Long:  `mframework reads model specifications (YAML, JSON or HCL), renders their documentation and validates model documents against them.`,
	// Execute prints the error once.
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Log model events to stderr")
}

// options builds the shared CLI options from the spec argument and flags.
func options(cmd *cobra.Command, specPath string) cli.Options {
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{SpecPath: specPath, Debug: debug}
}
