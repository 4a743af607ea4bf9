package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caseforge/casescan/internal/compare"
	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/database"
	"github.com/caseforge/casescan/internal/model"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <volume1> <volume2>",
		Short: "Compare two indexed volumes for copied text",
		Long: `Compare scores the full text of two indexed volumes against each other
and reports textual similarity, matched sentence fragments, and a
suspiciousness verdict.

Both volumes must already be indexed (see "casescan index"). Unlike the
automatic sweep after indexing, compare works without attribution
rules: the two volumes are treated as the two sides directly.

Examples:
  # Compare volumes 3 and 7
  casescan compare 3 7

  # Same, as JSON
  casescan compare --json 3 7

  # Lower the fragment length floor
  casescan compare --min-match-length 15 3 7`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().Float64("text-threshold", config.DefaultSuspiciousTextThreshold,
		"Text similarity percentage at or above which the pair is suspicious")
	cmd.Flags().Int("min-match-length", config.DefaultMinMatchLength,
		"Minimum sentence length for fragment matching, in characters")
	cmd.Flags().Bool("keep-boilerplate", false,
		"Do not strip configured boilerplate phrases before scoring")

	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Case configuration file path (default: .casescan in current directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the comparison as JSON")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	vol1, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid volume number %q", args[0])
	}
	vol2, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid volume number %q", args[1])
	}
	if vol1 == vol2 {
		return fmt.Errorf("cannot compare volume %d with itself", vol1)
	}

	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if dbDir, err := cmd.Flags().GetString("db-dir"); err != nil {
		return err
	} else if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := loadCaseFile(cfg); err != nil {
		return err
	}

	cfg.SuspiciousTextThreshold, err = cmd.Flags().GetFloat64("text-threshold")
	if err != nil {
		return err
	}
	cfg.MinMatchLength, err = cmd.Flags().GetInt("min-match-length")
	if err != nil {
		return err
	}
	keepBoilerplate, err := cmd.Flags().GetBool("keep-boilerplate")
	if err != nil {
		return err
	}
	cfg.StripBoilerplate = !keepBoilerplate

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)
	ctx := context.Background()

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	doc1, err := volumeDocument(ctx, db, vol1)
	if err != nil {
		return err
	}
	doc2, err := volumeDocument(ctx, db, vol2)
	if err != nil {
		return err
	}

	engine := compare.NewEngine(cfg, logger)
	comparison, err := engine.Compare(ctx, compare.Input{Doc1: doc1, Doc2: doc2})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(comparison)
	}

	printComparison(cmd, comparison)
	return nil
}

// volumeDocument loads a volume's pages as one document reference.
func volumeDocument(ctx context.Context, db *database.CaseDB, volume int) (model.DocumentRef, error) {
	pages, err := db.PagesForVolume(ctx, volume)
	if err != nil {
		return model.DocumentRef{}, fmt.Errorf("failed to load volume %d: %w", volume, err)
	}
	if len(pages) == 0 {
		return model.DocumentRef{}, fmt.Errorf("volume %d has no indexed pages (run \"casescan index\" first)", volume)
	}

	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}

	return model.DocumentRef{
		VolumeNumber: volume,
		PageRange:    fmt.Sprintf("1-%d", len(pages)),
		Author:       fmt.Sprintf("volume %d", volume),
		Text:         strings.Join(texts, "\n"),
	}, nil
}

// printComparison writes the human-readable comparison result.
func printComparison(cmd *cobra.Command, c *model.Comparison) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Volume %d  <->  Volume %d\n\n", c.Doc1.VolumeNumber, c.Doc2.VolumeNumber)
	fmt.Fprintf(out, "Text similarity:   %.2f%%\n", c.TextSimilarity)
	if c.VisualSimilarity != nil {
		fmt.Fprintf(out, "Visual similarity: %.2f%%\n", *c.VisualSimilarity)
	}
	fmt.Fprintf(out, "Matched fragments: %d\n", len(c.MatchedFragments))

	if c.IsSuspicious {
		fmt.Fprintf(out, "\nSUSPICIOUS: %s\n", c.SuspiciousReason)
	}
	fmt.Fprintf(out, "Review: %s\n", c.HumanReview)

	for i, f := range c.MatchedFragments {
		if i == 0 {
			fmt.Fprintln(out, "\nMatched fragments:")
		}
		fmt.Fprintf(out, "  %d. %s\n", i+1, f.Text)
	}
}
