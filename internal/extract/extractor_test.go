package extract

import (
	"testing"

	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/model"
)

// TestExtractCaseNumber tests the case-number cascade.
func TestExtractCaseNumber(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{"latin marker", "case № 123/2024", "123/2024"},
		{"cyrillic marker", "рассмотрев дело № 1-45/2023 в открытом заседании", "1-45/2023"},
		{"criminal case marker", "по уголовному делу № 22-107/2024", "22-107/2024"},
		{"bare numero", "материалы № 567/2021 приобщены", "567/2021"},
		{"no number", "протокол судебного заседания", ""},
	}

	e := New(nil)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := e.Extract(tc.text).CaseNumber; got != tc.expected {
				t.Errorf("CaseNumber = %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestExtractDocumentType tests keyword resolution order: configured
// keywords, then the built-in domain list, then the generic label.
func TestExtractDocumentType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		caseFile *config.File
		text     string
		expected string
	}{
		{
			name:     "builtin keyword",
			text:     "ПРИГОВОР именем Российской Федерации",
			expected: "приговор",
		},
		{
			name:     "multi-word keyword wins over its suffix",
			text:     "утверждено обвинительное заключение по делу",
			expected: "обвинительное заключение",
		},
		{
			name: "configured keyword checked first",
			caseFile: &config.File{DocumentTypeKeywords: []config.KeywordLabel{
				{Keyword: "приговор", Label: "судебный акт"},
			}},
			text:     "приговор оглашен",
			expected: "судебный акт",
		},
		{
			name:     "generic fallback",
			text:     "сопроводительное письмо",
			expected: "документ",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := New(tc.caseFile).Extract(tc.text).DocumentType; got != tc.expected {
				t.Errorf("DocumentType = %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestExtractFields tests the remaining cascades over one composite
// judgment fixture.
func TestExtractFields(t *testing.T) {
	t.Parallel()

	text := "Тверской районный суд в составе председательствующего судьи Петровой А.В., " +
		"с участием государственного обвинителя Смирнова И.К., " +
		"рассмотрев дело № 1-45/2023, установил: вина подсудимого подтверждается материалами дела. " +
		"Суд постановил: назначить наказание в виде штрафа. " +
		"Приговор вынесен 15 марта 2024 года."

	fields := New(nil).Extract(text)

	if fields.CourtName != "Тверской районный суд" {
		t.Errorf("CourtName = %q", fields.CourtName)
	}
	if fields.Judge != "Петровой А.В." {
		t.Errorf("Judge = %q", fields.Judge)
	}
	if fields.CaseNumber != "1-45/2023" {
		t.Errorf("CaseNumber = %q", fields.CaseNumber)
	}
	if fields.DecisionDate != "2024-03-15" {
		t.Errorf("DecisionDate = %q", fields.DecisionDate)
	}
	if got := fields.Parties[model.PartyProsecutor]; got != "Смирнова И.К." {
		t.Errorf("prosecutor = %q", got)
	}
	if _, ok := fields.Parties[model.PartyPlaintiff]; ok {
		t.Error("plaintiff present, expected the role to be omitted")
	}
	if fields.Decision != "назначить наказание в виде штрафа" {
		t.Errorf("Decision = %q", fields.Decision)
	}
	if fields.Reasoning != "вина подсудимого подтверждается материалами дела." {
		t.Errorf("Reasoning = %q", fields.Reasoning)
	}
}

// TestExtractReasoningOpenEnded tests the reasoning section without an
// operative marker.
func TestExtractReasoningOpenEnded(t *testing.T) {
	t.Parallel()

	fields := New(nil).Extract("Суд установил: обстоятельства изложены ниже")
	if fields.Reasoning != "обстоятельства изложены ниже" {
		t.Errorf("Reasoning = %q, expected the open-ended remainder", fields.Reasoning)
	}
}

// TestExtractIndependentFields tests that one failing cascade leaves
// the other fields intact.
func TestExtractIndependentFields(t *testing.T) {
	t.Parallel()

	fields := New(nil).Extract("дело № 9/2020 без единой даты")
	if fields.CaseNumber != "9/2020" {
		t.Errorf("CaseNumber = %q", fields.CaseNumber)
	}
	if fields.DecisionDate != "" {
		t.Errorf("DecisionDate = %q, expected empty", fields.DecisionDate)
	}
	if fields.Judge != "" {
		t.Errorf("Judge = %q, expected empty", fields.Judge)
	}
}
