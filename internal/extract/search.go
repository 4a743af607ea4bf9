package extract

import (
	"strings"

	"github.com/caseforge/casescan/internal/model"
)

// Filters are the structured constraints of a composite search. All
// set filters combine conjunctively; matching is case-insensitive
// substring on the derived field.
type Filters struct {
	CaseNumber   string
	CourtName    string
	Judge        string
	DocumentType string
}

// Empty reports whether no structured filter is set.
func (f Filters) Empty() bool {
	return f.CaseNumber == "" && f.CourtName == "" && f.Judge == "" && f.DocumentType == ""
}

// FilterResults attaches derived fields to each full-text hit and
// drops hits failing any set filter. Relevance ordering of the
// surviving hits is preserved. With empty filters the hits pass
// through unchanged and fields stay nil, keeping plain search cheap.
func (e *Extractor) FilterResults(results []model.SearchResult, f Filters) []model.SearchResult {
	if f.Empty() {
		return results
	}

	out := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		fields := e.Extract(r.Page.Text)
		if !matches(fields, f) {
			continue
		}
		r.Fields = fields
		out = append(out, r)
	}
	return out
}

func matches(fields *model.CaseFields, f Filters) bool {
	return containsFold(fields.CaseNumber, f.CaseNumber) &&
		containsFold(fields.CourtName, f.CourtName) &&
		containsFold(fields.Judge, f.Judge) &&
		containsFold(fields.DocumentType, f.DocumentType)
}

// containsFold is a case-insensitive substring test; an empty want
// always passes.
func containsFold(have, want string) bool {
	if want == "" {
		return true
	}
	return strings.Contains(strings.ToLower(have), strings.ToLower(want))
}
