package main

import (
	"os"

	"github.com/aretw0/mframework/internal/cli"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mframework",
	Run: func(cmd *cobra.Command, args []string) {
		cli.PrintVersion(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
