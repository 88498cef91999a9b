package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "steer",
	Short: "Interactive steering for long-running training loops",
	Long: `Steer runs an iterative training process under operator control: hit
Ctrl+C at any time to pause at the next safe point, inspect status values,
adjust hyperparameters, and resume with the edits checkpointed.`,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("steer version {{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
