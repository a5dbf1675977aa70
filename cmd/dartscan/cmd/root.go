package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dartscan",
	Short: "dartscan — import and class-field reports for Dart sources",
	Long:  "Walks Dart source files and reports, per file, the modules it imports and the instance fields its classes declare.",
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
}
