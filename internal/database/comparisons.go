package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/caseforge/casescan/internal/model"
)

// SaveComparison inserts or replaces a comparison record by ID.
// The full record is stored as JSON; the indexed columns exist for the
// suspicious listing and statistics only.
func (cdb *CaseDB) SaveComparison(ctx context.Context, c *model.Comparison) error {
	recordJSON, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize comparison: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO comparisons (id, volume1, volume2, text_similarity, visual_similarity, is_suspicious, record_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var visual sql.NullFloat64
	if c.VisualSimilarity != nil {
		visual = sql.NullFloat64{Float64: *c.VisualSimilarity, Valid: true}
	}

	if _, err := cdb.db.ExecContext(ctx, query,
		c.ID,
		c.Doc1.VolumeNumber,
		c.Doc2.VolumeNumber,
		c.TextSimilarity,
		visual,
		boolToInt(c.IsSuspicious),
		string(recordJSON),
	); err != nil {
		return fmt.Errorf("failed to save comparison: %w", err)
	}
	return nil
}

// SuspiciousComparisons returns all flagged comparisons ordered by
// descending text similarity.
func (cdb *CaseDB) SuspiciousComparisons(ctx context.Context) ([]model.Comparison, error) {
	query := `
	SELECT record_json FROM comparisons
	WHERE is_suspicious = 1
	ORDER BY text_similarity DESC, id
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparisons: %w", err)
	}
	defer rows.Close()

	var comparisons []model.Comparison
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}

		var c model.Comparison
		if err := json.Unmarshal([]byte(recordJSON), &c); err != nil {
			continue // Skip malformed records
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
