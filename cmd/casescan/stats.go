package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/database"
	"github.com/caseforge/casescan/internal/model"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for the indexed case",
		Long: `Stats summarizes the local index: volume and page counts, indexing
completion, and the number of suspicious comparisons on record.

Examples:
  # Human-readable summary
  casescan stats

  # JSON for scripting
  casescan stats --json`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output statistics as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output statistics as Markdown (mutually exclusive with --json)")
	cmd.Flags().Bool("volumes", false,
		"List per-volume indexing status after the summary")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if dbDir, err := cmd.Flags().GetString("db-dir"); err != nil {
		return err
	} else if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return config.ErrConflictingReportFormats
	}

	listVolumes, err := cmd.Flags().GetBool("volumes")
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	stats, err := db.CaseStatistics(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute case statistics: %w", err)
	}

	w := reportWriter(cfg, cmd.OutOrStdout())
	if _, err := w.WriteStatistics(stats); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}

	if listVolumes && !cfg.JSONReport && !cfg.MarkdownReport {
		volumes, err := db.ListVolumes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list volumes: %w", err)
		}
		printVolumes(cmd, volumes)
	}
	return nil
}

// printVolumes writes the per-volume status list.
func printVolumes(cmd *cobra.Command, volumes []model.Volume) {
	out := cmd.OutOrStdout()
	for _, v := range volumes {
		fmt.Fprintf(out, "  vol %-3d %-10s %5.1f%%  %d pages  %s\n",
			v.VolumeNumber, v.IndexingStatus, v.IndexingProgress, v.TotalPages, v.FilePath)
	}
}
