package extract

import (
	"strings"

	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/model"
)

// Extractor derives structured fields from page text. It is stateless
// apart from the configured document type keywords, so one instance
// serves all goroutines.
type Extractor struct {
	keywords []config.KeywordLabel
}

// New creates an Extractor. caseFile may be nil; the built-in domain
// keyword list then carries document type detection alone.
func New(caseFile *config.File) *Extractor {
	e := &Extractor{}
	if caseFile != nil {
		e.keywords = caseFile.DocumentTypeKeywords
	}
	return e
}

// Extract derives every structured field from text. Fields resolve
// independently: a failed cascade leaves its field empty and never
// affects the others.
func (e *Extractor) Extract(text string) *model.CaseFields {
	fields := &model.CaseFields{
		DocumentType: e.documentType(text),
		CaseNumber:   firstMatch(text, caseNumberCascade),
		DecisionDate: parseDate(firstMatch(text, decisionDateCascade)),
		CourtName:    strings.TrimSpace(firstMatch(text, courtNameCascade)),
		Judge:        strings.TrimSpace(firstMatch(text, judgeCascade)),
		Decision:     strings.TrimSpace(firstMatch(text, decisionCascade)),
		Reasoning:    reasoning(text),
	}

	for role, cascade := range partyCascades {
		if v := strings.TrimSpace(firstMatch(text, cascade)); v != "" {
			if fields.Parties == nil {
				fields.Parties = make(map[string]string)
			}
			fields.Parties[role] = v
		}
	}

	return fields
}

// documentType labels the page: configured keywords first, then the
// built-in domain list, then the generic label.
func (e *Extractor) documentType(text string) string {
	lower := strings.ToLower(text)

	for _, kl := range e.keywords {
		if kl.Keyword != "" && strings.Contains(lower, strings.ToLower(kl.Keyword)) {
			return kl.Label
		}
	}
	for _, kw := range domainTypeKeywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return genericDocumentType
}

// reasoning extracts the text between the reasoning-section marker and
// the operative-section marker. The operative marker is searched only
// after the reasoning marker; without one, the section is open-ended.
func reasoning(text string) string {
	start := reasoningStart.FindStringIndex(text)
	if start == nil {
		return ""
	}

	rest := text[start[1]:]
	if end := reasoningEnd.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return strings.TrimSpace(rest)
}
