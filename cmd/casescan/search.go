package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/database"
	"github.com/caseforge/casescan/internal/extract"
	"github.com/caseforge/casescan/internal/model"
)

// structuredOverfetch widens the full-text limit when structured
// filters are set: filtering happens after ranking, so matching pages
// past the first ranked hits would otherwise be lost.
const structuredOverfetch = 20

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed case pages",
		Long: `Search runs a ranked full-text query over all indexed pages.

Words are AND-combined keywords; wrap the query in double quotes inside
your shell quoting to force an exact phrase:

  casescan search 'постановление о возбуждении'
  casescan search '"возбуждении уголовного дела"'

Structured filters narrow the hits by legal fields derived from the
page text. All set filters must match:

  casescan search --case-number 123/2024 --judge Иванов осмотр

Examples:
  # Keyword search, top 10 hits
  casescan search обыск

  # Restrict to volumes 3 and 4, 25 hits
  casescan search --volumes 3,4 -n 25 обыск

  # Restrict by derived document type
  casescan search --type протокол обыск`,
		Args: cobra.ExactArgs(1),
		RunE: runSearchCmd,
	}

	cmd.Flags().IntSlice("volumes", nil,
		"Restrict hits to these volume numbers")
	cmd.Flags().StringP("type", "t", "",
		"Restrict hits to pages with this derived document type")
	cmd.Flags().IntP("limit", "n", config.DefaultSearchLimit,
		"Maximum number of hits")

	// Structured field filters
	cmd.Flags().String("case-number", "", "Filter by derived case number")
	cmd.Flags().String("court", "", "Filter by derived court name")
	cmd.Flags().String("judge", "", "Filter by derived judge name")

	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Case configuration file path (default: .casescan in current directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output hits as JSON")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
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

	volumes, err := cmd.Flags().GetIntSlice("volumes")
	if err != nil {
		return err
	}
	docType, err := cmd.Flags().GetString("type")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = config.DefaultSearchLimit
	}

	filters := extract.Filters{}
	if filters.CaseNumber, err = cmd.Flags().GetString("case-number"); err != nil {
		return err
	}
	if filters.CourtName, err = cmd.Flags().GetString("court"); err != nil {
		return err
	}
	if filters.Judge, err = cmd.Flags().GetString("judge"); err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	query := database.SearchQuery{
		Text:         args[0],
		Volumes:      volumes,
		DocumentType: docType,
		Limit:        limit,
	}
	if !filters.Empty() {
		query.Limit = limit * structuredOverfetch
	}

	results, err := db.Search(context.Background(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	logger.Debug("search executed", "query", args[0], "hits", len(results))

	results = extract.New(cfg.CaseFile).FilterResults(results, filters)
	if len(results) > limit {
		results = results[:limit]
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	printSearchResults(cmd, results)
	return nil
}

// printSearchResults writes the human-readable hit list.
func printSearchResults(cmd *cobra.Command, results []model.SearchResult) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No matches found.")
		return
	}

	for i, r := range results {
		fmt.Fprintf(out, "%d. vol %d p.%d  (relevance %.3f)\n",
			i+1, r.Page.VolumeNumber, r.Page.PageNumber, r.Relevance)
		if snippet := strings.TrimSpace(r.Snippet); snippet != "" {
			fmt.Fprintf(out, "   %s\n", snippet)
		}
		if r.Fields != nil {
			printFields(out, r.Fields)
		}
		fmt.Fprintln(out)
	}
}

// printFields writes the derived structured fields of one hit.
func printFields(out io.Writer, f *model.CaseFields) {
	if f.CaseNumber != "" {
		fmt.Fprintf(out, "   case:  %s\n", f.CaseNumber)
	}
	if f.CourtName != "" {
		fmt.Fprintf(out, "   court: %s\n", f.CourtName)
	}
	if f.Judge != "" {
		fmt.Fprintf(out, "   judge: %s\n", f.Judge)
	}
	if f.DocumentType != "" {
		fmt.Fprintf(out, "   type:  %s\n", f.DocumentType)
	}
}
