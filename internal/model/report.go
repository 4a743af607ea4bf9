package model

import "time"

// CaseReport is the reviewable outcome of an index run: case-level
// statistics plus every comparison flagged suspicious, ordered by text
// similarity descending.
type CaseReport struct {
	// CaseDir is the case directory the report covers.
	CaseDir string `json:"case_dir"`

	// GeneratedAt is when the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// Statistics summarizes the indexed case.
	Statistics CaseStatistics `json:"statistics"`

	// Suspicious lists the flagged comparisons, most similar first.
	Suspicious []*Comparison `json:"suspicious,omitempty"`
}

// NewCaseReport assembles a CaseReport stamped with the current time.
func NewCaseReport(caseDir string, stats CaseStatistics, suspicious []*Comparison) *CaseReport {
	return &CaseReport{
		CaseDir:     caseDir,
		GeneratedAt: time.Now(),
		Statistics:  stats,
		Suspicious:  suspicious,
	}
}

// HasFindings reports whether any suspicious pairs were flagged.
func (r *CaseReport) HasFindings() bool {
	return len(r.Suspicious) > 0
}

// CriticalCount counts suspicious pairs with near-identical text.
func (r *CaseReport) CriticalCount() int {
	n := 0
	for _, c := range r.Suspicious {
		if c.TextSimilarity >= 90 {
			n++
		}
	}
	return n
}
