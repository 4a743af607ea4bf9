package model

// Party roles recognized by the field extractor. Each role is resolved
// independently by its own pattern cascade; absent roles are omitted
// from CaseFields.Parties rather than defaulted.
const (
	PartyPlaintiff  = "plaintiff"
	PartyDefendant  = "defendant"
	PartyProsecutor = "prosecutor"
)

// CaseFields holds structured legal fields derived from raw page text
// via ordered pattern cascades. Every field is optional: a field is
// empty when no pattern in its cascade matched.
type CaseFields struct {
	// DocumentType is the derived legal document type label, e.g.
	// "приговор" or "постановление". Falls back to a generic
	// "документ" label when nothing matched.
	DocumentType string `json:"document_type,omitempty"`

	// CaseNumber is the case number, e.g. "123/2024".
	CaseNumber string `json:"case_number,omitempty"`

	// DecisionDate is the decision date in ISO form (yyyy-mm-dd).
	// Empty when no date pattern matched or parsing failed.
	DecisionDate string `json:"decision_date,omitempty"`

	// CourtName is the issuing court.
	CourtName string `json:"court_name,omitempty"`

	// Judge is the presiding judge.
	Judge string `json:"judge,omitempty"`

	// Parties maps party roles (PartyPlaintiff etc.) to names.
	// Roles that were not found are absent from the map.
	Parties map[string]string `json:"parties,omitempty"`

	// Decision is the operative text following a ruling marker, up to
	// the next sentence boundary.
	Decision string `json:"decision,omitempty"`

	// Reasoning is the text between the reasoning-section marker and
	// the operative-section marker.
	Reasoning string `json:"reasoning,omitempty"`
}

// SearchResult is an ephemeral ranked hit from a full-text query.
// It is never persisted; relevance is only meaningful for ordering
// within a single result set.
type SearchResult struct {
	// Page is the matching page.
	Page Page `json:"page"`

	// Relevance is a monotone-decreasing transform of the ranking
	// score, in (0,1]. Callers must not assume a fixed scale.
	Relevance float64 `json:"relevance"`

	// Snippet is a short highlighted excerpt around the match.
	Snippet string `json:"snippet,omitempty"`

	// Fields carries derived structured fields when the caller asked
	// for structured search. Nil for plain full-text search.
	Fields *CaseFields `json:"fields,omitempty"`
}
