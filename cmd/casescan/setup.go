package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/database"
	"github.com/caseforge/casescan/internal/log"
	"github.com/caseforge/casescan/internal/model"
	"github.com/caseforge/casescan/internal/report"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// newLogger creates the structured logger for a command run.
func newLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}

// loadCaseFile resolves and loads the .casescan configuration file.
// An explicitly specified path that does not exist is an error; a
// missing default file leaves cfg.CaseFile nil.
func loadCaseFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath, cfg.CaseDir)

	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.CaseFile = cf
	return nil
}

// openReportOutput resolves the report destination: the configured file
// with parent directories created, or stdout. The caller must invoke
// the returned cleanup.
func openReportOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// reportWriter selects the writer for the configured report format.
func reportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// outputCaseReport assembles the case report from the store and writes
// it in the configured format.
func outputCaseReport(ctx context.Context, cfg *config.Config, db *database.CaseDB) error {
	stats, err := db.CaseStatistics(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute case statistics: %w", err)
	}

	comparisons, err := db.SuspiciousComparisons(ctx)
	if err != nil {
		return fmt.Errorf("failed to load suspicious comparisons: %w", err)
	}
	suspicious := make([]*model.Comparison, len(comparisons))
	for i := range comparisons {
		suspicious[i] = &comparisons[i]
	}

	output, cleanup, err := openReportOutput(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	w := reportWriter(cfg, output)
	if _, err := w.Write(model.NewCaseReport(cfg.CaseDir, *stats, suspicious)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
