// Package main provides the entry point for the simscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for simscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simscan",
		Short: "Structural similarity scanner for code submissions",
		Long: `Simscan ranks pairs of student submissions by structural similarity.

It extracts each submission archive, strips comments and instructor-supplied
template lines from the target source file, parses the result into a syntax
tree, and compares winnowing fingerprints of the serialized trees. Renaming
identifiers or reformatting does not change a submission's score.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
