package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/casescan.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".casescan"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new casescan configuration file",
		Long: `Init creates a new .casescan configuration file in the current directory.

The generated file includes commented examples for:
- Boilerplate phrases stripped before similarity scoring
- Document type keyword overrides
- Author attribution rules for the suspicious-pair sweep

Examples:
  # Create .casescan in current directory
  casescan init

  # Create config file at a specific path
  casescan init -o /cases/case-42/.casescan

  # Force overwrite existing file
  casescan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/casescan.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure case-specific settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Boilerplate phrases to strip before similarity scoring")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Document type keyword overrides")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Author attribution rules for the comparison sweep")

	return nil
}
