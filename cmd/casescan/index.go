package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/caseforge/casescan/internal/cache"
	"github.com/caseforge/casescan/internal/compare"
	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/database"
	"github.com/caseforge/casescan/internal/extract"
	"github.com/caseforge/casescan/internal/indexer"
	"github.com/caseforge/casescan/internal/ingest"
	"github.com/caseforge/casescan/internal/model"
	"github.com/caseforge/casescan/internal/ocr"
	"github.com/caseforge/casescan/internal/pdf"
)

// NewIndexCmd creates the index command.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <case-dir>",
		Short: "Index a case directory of PDF volumes",
		Long: `Index scans the case directory recursively for PDF volumes and brings
the local database up to date.

For each new or incomplete volume it extracts per-page text (falling
back to OCR for scanned pages), derives structured legal fields, and
stores everything in a full-text searchable index. Volumes that already
finished indexing are skipped, so re-running index after adding volumes
is cheap.

When the case configuration assigns author roles to volumes, indexing
finishes with a comparison sweep that flags document pairs with
suspiciously similar text across different authors.

Examples:
  # Index a case directory
  casescan index /cases/case-42

  # Re-index after adding volumes, without OCR
  casescan index --no-ocr /cases/case-42

  # Use a specific case configuration file
  casescan index -c /cases/case-42/.casescan /cases/case-42

Configuration file (.casescan) example:
  attribution:
    - volume: 1
      role: investigator_a
    - volume: 2
      pages: 1-120
      role: investigator_b
  boilerplate:
    - "руководствуясь статьями 307-309 УПК"`,
		Args: cobra.ExactArgs(1),
		RunE: runIndexCmd,
	}

	// OCR flags
	cmd.Flags().Bool("no-ocr", false,
		"Disable OCR fallback for pages without a text layer")
	cmd.Flags().StringP("ocr-language", "l", config.DefaultOCRLanguage,
		"OCR language code used when detection finds nothing better")
	cmd.Flags().IntP("ocr-workers", "w", config.DefaultOCRWorkers,
		"Number of concurrent page-OCR workers")
	cmd.Flags().Duration("ocr-timeout", config.DefaultOCRTimeout,
		"Per-page OCR timeout")

	// Comparison flags
	cmd.Flags().Float64("text-threshold", config.DefaultSuspiciousTextThreshold,
		"Text similarity percentage at or above which a pair is suspicious")
	cmd.Flags().Float64("visual-threshold", config.DefaultSuspiciousVisualThreshold,
		"Visual similarity percentage at or above which a pair is suspicious")
	cmd.Flags().Int("min-match-length", config.DefaultMinMatchLength,
		"Minimum sentence length for fragment matching, in characters")
	cmd.Flags().Int("compare-workers", config.DefaultCompareWorkers,
		"Number of concurrent comparison workers")
	cmd.Flags().Bool("keep-boilerplate", false,
		"Do not strip configured boilerplate phrases before scoring")

	// Storage flags
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().String("cache-dir", "",
		"Text/image cache directory (default: XDG cache directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Case configuration file path (default: .casescan in the case or current directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runIndexCmd executes the index command.
func runIndexCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildIndexConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runIndex(ctx, cfg, logger, cmd)
}

// buildIndexConfig creates a Config from cobra command flags.
func buildIndexConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.CaseDir = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	noOCR, err := cmd.Flags().GetBool("no-ocr")
	if err != nil {
		return nil, err
	}
	cfg.UseOCR = !noOCR

	cfg.OCRLanguage, err = cmd.Flags().GetString("ocr-language")
	if err != nil {
		return nil, err
	}

	cfg.OCRWorkers, err = cmd.Flags().GetInt("ocr-workers")
	if err != nil {
		return nil, err
	}

	cfg.OCRTimeout, err = cmd.Flags().GetDuration("ocr-timeout")
	if err != nil {
		return nil, err
	}

	cfg.SuspiciousTextThreshold, err = cmd.Flags().GetFloat64("text-threshold")
	if err != nil {
		return nil, err
	}

	cfg.SuspiciousVisualThreshold, err = cmd.Flags().GetFloat64("visual-threshold")
	if err != nil {
		return nil, err
	}

	cfg.MinMatchLength, err = cmd.Flags().GetInt("min-match-length")
	if err != nil {
		return nil, err
	}

	cfg.CompareWorkers, err = cmd.Flags().GetInt("compare-workers")
	if err != nil {
		return nil, err
	}

	keepBoilerplate, err := cmd.Flags().GetBool("keep-boilerplate")
	if err != nil {
		return nil, err
	}
	cfg.StripBoilerplate = !keepBoilerplate

	if dbDir, err := cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	} else if dbDir != "" {
		cfg.DBDir = dbDir
	}

	if cacheDir, err := cmd.Flags().GetString("cache-dir"); err != nil {
		return nil, err
	} else if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadCaseFile(cfg); err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// runIndex executes the indexing run and prints the resulting report.
func runIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger, cmd *cobra.Command) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "dir", cfg.DBDir)

	textCache, err := cache.New(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to create text cache: %w", err)
	}

	var factory ocr.Factory
	if cfg.UseOCR {
		factory = ocr.TesseractFactory("", cfg.OCRTimeout, nil)
	}

	ingestor := ingest.New(cfg, logger, pdf.NewFileReader(logger), textCache, factory)
	extractor := extract.New(cfg.CaseFile)
	engine := compare.NewEngine(cfg, logger)
	ix := indexer.New(cfg, logger, db, ingestor, extractor, engine)

	out := cmd.OutOrStdout()
	var failed bool
	for ev := range ix.Update(ctx) {
		if ev.Phase == model.PhaseError {
			failed = true
		}
		if ev.Message != "" {
			fmt.Fprintf(out, "[%3.0f%%] %s\n", ev.FractionComplete*100, ev.Message)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("indexing finished with errors, see log output")
	}

	return outputCaseReport(ctx, cfg, db)
}
