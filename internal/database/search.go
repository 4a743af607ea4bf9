package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/caseforge/casescan/internal/model"
)

// SearchQuery describes one full-text search.
type SearchQuery struct {
	// Text is the user query. Wrapping it in double quotes forces an
	// exact phrase; otherwise the words are AND-combined keywords.
	Text string

	// Volumes optionally restricts hits to a set of volume numbers.
	Volumes []int

	// DocumentType optionally restricts hits to pages whose derived
	// document type tag equals this value.
	DocumentType string

	// Limit caps the number of hits. Non-positive means no explicit
	// limit was requested and the store default applies.
	Limit int
}

// defaultSearchLimit caps result sets when the caller did not.
const defaultSearchLimit = 10

// Search executes a ranked full-text query. Hits come back ordered by
// descending relevance. Relevance is 1/(1+|bm25|), a monotone transform
// of the ranking score: callers may rely on ordering, never on scale.
func (cdb *CaseDB) Search(ctx context.Context, q SearchQuery) ([]model.SearchResult, error) {
	match := buildMatchExpr(q.Text)
	if match == "" {
		return nil, fmt.Errorf("empty search query")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	query := `
	SELECT p.volume_number, p.page_number, p.text, p.image_path, p.ocr_confidence, p.metadata,
	       bm25(pages_fts) AS rank,
	       snippet(pages_fts, 0, '', '', '…', 12) AS snip
	FROM pages_fts
	JOIN pages p ON p.id = pages_fts.rowid
	WHERE pages_fts MATCH ?
	`
	args := []any{match}

	if len(q.Volumes) > 0 {
		query += " AND p.volume_number IN (" + placeholders(len(q.Volumes)) + ")"
		for _, v := range q.Volumes {
			args = append(args, v)
		}
	}
	if q.DocumentType != "" {
		query += " AND json_extract(p.metadata, '$.document_type') = ?"
		args = append(args, q.DocumentType)
	}

	query += " ORDER BY rank LIMIT ?"
	args = append(args, limit)

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer rows.Close()

	var results []model.SearchResult
	for rows.Next() {
		var r model.SearchResult
		var rank float64
		var imagePath, metadataJSON, snip sql.NullString
		var confidence sql.NullFloat64

		if err := rows.Scan(
			&r.Page.VolumeNumber,
			&r.Page.PageNumber,
			&r.Page.Text,
			&imagePath,
			&confidence,
			&metadataJSON,
			&rank,
			&snip,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}

		if imagePath.Valid {
			r.Page.ImagePath = imagePath.String
		}
		if confidence.Valid {
			c := confidence.Float64
			r.Page.OCRConfidence = &c
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &r.Page.Metadata); err != nil {
				return nil, fmt.Errorf("failed to parse page metadata: %w", err)
			}
		}
		r.Snippet = snip.String
		r.Relevance = 1 / (1 + math.Abs(rank))
		results = append(results, r)
	}
	return results, rows.Err()
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// buildMatchExpr turns the user query into an FTS5 MATCH expression.
// A query the user wrapped in double quotes becomes a phrase; anything
// else becomes AND-combined quoted keywords, so FTS operators in user
// input stay inert.
func buildMatchExpr(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		return quoteToken(strings.Trim(text, `"`))
	}

	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if t := quoteToken(w); t != `""` {
			tokens = append(tokens, t)
		}
	}
	return strings.Join(tokens, " AND ")
}

// quoteToken wraps a token in FTS5 string quotes, doubling any
// embedded quote characters.
func quoteToken(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
