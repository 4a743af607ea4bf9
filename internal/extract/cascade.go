package extract

import (
	"regexp"

	"github.com/caseforge/casescan/internal/model"
)

// pattern is one step of a field cascade: a compiled expression and the
// index of the capturing group holding the field value. Group 0 takes
// the whole match.
type pattern struct {
	re    *regexp.Regexp
	group int
}

// firstMatch runs a cascade against text and returns the value captured
// by the first matching pattern, or "" when nothing matched.
func firstMatch(text string, cascade []pattern) string {
	for _, p := range cascade {
		m := p.re.FindStringSubmatch(text)
		if m == nil || p.group >= len(m) {
			continue
		}
		if v := m[p.group]; v != "" {
			return v
		}
	}
	return ""
}

var caseNumberCascade = []pattern{
	{regexp.MustCompile(`(?i)(?:уголовн\p{L}+\s+)?дел\p{L}+\s*№\s*([0-9][0-9A-Za-zА-Яа-я/\-]*)`), 1},
	{regexp.MustCompile(`(?i)case\s*№\s*([0-9][0-9A-Za-z/\-]*)`), 1},
	{regexp.MustCompile(`№\s*([0-9]+/[0-9]{4})`), 1},
}

var decisionDateCascade = []pattern{
	{regexp.MustCompile(`(?i)\d{1,2}\s+\p{Cyrillic}+\s+\d{4}`), 0},
	{regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`), 0},
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), 0},
}

// courtNameCascade anchors on a capitalized locality word so the match
// does not swallow preceding prose.
var courtNameCascade = []pattern{
	{regexp.MustCompile(`(\p{Lu}\p{Cyrillic}*(?:\s+\p{Ll}+)*?\s+(?:районн|городск|областн|краев|верховн|арбитражн|апелляционн)\p{Cyrillic}+\s+суд\p{Cyrillic}*)`), 1},
	{regexp.MustCompile(`([Сс]уд\s+\p{Lu}\p{Cyrillic}*\s+(?:области|края|республики))`), 1},
}

// judgeCascade avoids the (?i) flag: under case folding \p{Lu} stops
// meaning "capitalized surname", so the markers spell both cases out.
var judgeCascade = []pattern{
	{regexp.MustCompile(`[Пп]редседательствующ\p{Cyrillic}+\s+судь\p{Cyrillic}\s+(\p{Lu}\p{Ll}+(?:\s+\p{Lu}\.\s*\p{Lu}\.)?)`), 1},
	{regexp.MustCompile(`[Сс]удь\p{Cyrillic}:?\s+(\p{Lu}\p{Ll}+\s+\p{Lu}\.\s*\p{Lu}\.)`), 1},
	{regexp.MustCompile(`[Сс]удь\p{Cyrillic}:?\s+(\p{Lu}\p{Ll}+)`), 1},
}

// nameSeq captures a run of capitalized words and initials, so
// "Сидоров А.П." survives intact instead of truncating at the first
// period.
const nameSeq = `(\p{Lu}\p{Cyrillic}+(?:\s+(?:\p{Lu}\p{Cyrillic}+|\p{Lu}\.(?:\s*\p{Lu}\.)*))*)`

// partyCascades resolves each role independently. Absent roles are
// omitted from the result, never defaulted.
var partyCascades = map[string][]pattern{
	model.PartyPlaintiff: {
		{regexp.MustCompile(`[Ии]стец:?\s+` + nameSeq), 1},
		{regexp.MustCompile(`[Зз]аявитель:?\s+` + nameSeq), 1},
	},
	model.PartyDefendant: {
		{regexp.MustCompile(`[Оо]тветчик:?\s+` + nameSeq), 1},
		{regexp.MustCompile(`[Оо]бвиняем\p{Ll}+:?\s+` + nameSeq), 1},
		{regexp.MustCompile(`[Пп]одсудим\p{Ll}+:?\s+` + nameSeq), 1},
	},
	model.PartyProsecutor: {
		{regexp.MustCompile(`[Гг]осударственн\p{Ll}+\s+обвинител\p{Ll}+:?\s+` + nameSeq), 1},
		{regexp.MustCompile(`[Пп]рокурор\p{Ll}*:?\s+` + nameSeq), 1},
	},
}

var decisionCascade = []pattern{
	{regexp.MustCompile(`(?i)суд\s+(?:решил|постановил|определил|приговорил):?\s+([^.!?]+)`), 1},
	{regexp.MustCompile(`(?i)приговорил:?\s+([^.!?]+)`), 1},
	{regexp.MustCompile(`(?i)решение:\s+([^.!?]+)`), 1},
}

// reasoningStart and reasoningEnd bound the reasoning section. The end
// marker is optional; without it the section runs to the end of the
// text.
var (
	reasoningStart = regexp.MustCompile(`(?i)(?:суд\s+)?установил:?`)
	reasoningEnd   = regexp.MustCompile(`(?i)(?:суд\s+)?(?:постановил|решил|определил|приговорил):?`)
)

// domainTypeKeywords is the built-in document type fallback, tried in
// order after the configured keyword list. Multi-word entries come
// first so "обвинительное заключение" wins over bare "заключение".
var domainTypeKeywords = []string{
	"обвинительное заключение",
	"заключение эксперта",
	"протокол допроса",
	"протокол осмотра",
	"приговор",
	"постановление",
	"определение",
	"решение",
	"протокол",
	"ходатайство",
	"жалоба",
}

// genericDocumentType labels pages no keyword matched.
const genericDocumentType = "документ"
