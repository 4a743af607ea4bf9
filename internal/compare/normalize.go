package compare

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var (
	whitespaceRun     = regexp.MustCompile(`\s+`)
	sentenceDelimiter = regexp.MustCompile(`[.!?…]+`)
)

// delimiterWidth is the fixed width charged per sentence boundary when
// reconstructing fragment offsets. Offsets are approximate and serve
// navigation, not byte-exact extraction.
const delimiterWidth = 1

var foldCaser = cases.Fold()

// Normalize prepares text for similarity scoring: Unicode case
// folding, punctuation removal, whitespace collapse. Cyrillic and
// Latin letters survive, everything else that is not a letter, digit,
// or space is dropped.
func Normalize(text string) string {
	folded := foldCaser.String(text)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(b.String(), " "))
}

// sentenceSpan is one sentence with its approximate offset in the
// source text.
type sentenceSpan struct {
	text   string
	offset int
}

// splitSentences splits text on terminal punctuation and tracks the
// approximate offset of each sentence by summing prior segment lengths
// plus a fixed delimiter width per boundary.
func splitSentences(text string) []sentenceSpan {
	segments := sentenceDelimiter.Split(text, -1)

	spans := make([]sentenceSpan, 0, len(segments))
	offset := 0
	for _, seg := range segments {
		if trimmed := strings.TrimSpace(seg); trimmed != "" {
			spans = append(spans, sentenceSpan{text: trimmed, offset: offset})
		}
		offset += len([]rune(seg)) + delimiterWidth
	}
	return spans
}

// stripBoilerplate removes known recurring formal phrases from text
// before doc-level scoring. Matching is case-insensitive; phrase
// occurrences are replaced with a single space so surrounding words do
// not fuse.
func stripBoilerplate(text string, phrases []string) string {
	if len(phrases) == 0 {
		return text
	}
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		p := strings.ToLower(strings.TrimSpace(phrase))
		if p == "" {
			continue
		}
		for {
			i := strings.Index(lower, p)
			if i < 0 {
				break
			}
			text = text[:i] + " " + text[i+len(p):]
			lower = lower[:i] + " " + lower[i+len(p):]
		}
	}
	return text
}
