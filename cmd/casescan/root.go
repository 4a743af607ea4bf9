// Package main provides the entry point for the casescan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for casescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "casescan",
		Short: "Document forensics for multi-volume legal case files",
		Long: `Casescan indexes multi-volume legal case files (PDF) into a searchable
local database and detects copied text between documents attributed to
different case participants.

Scanned pages without a usable text layer are recovered with OCR; the
extracted text is cached so re-indexing a case is cheap.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewStatsCmd())
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
