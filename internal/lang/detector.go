// Package lang selects the OCR language for a volume.
//
// Tesseract needs a language code up front, and feeding Cyrillic scans
// to an English model produces garbage with high confidence. When a
// volume has at least one page with a usable text layer, detecting its
// language picks the right OCR model for the scanned remainder; mixed
// volumes are common in practice (typed cover pages, scanned bodies).
package lang

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// MinSampleLength is the minimum text length for a reliable detection.
// lingua's accuracy degrades sharply below ~20 characters; stamps and
// page numbers must not decide the OCR language for a whole volume.
const MinSampleLength = 20

// Detector maps sample text to a tesseract language code.
type Detector struct {
	detector lingua.LanguageDetector
	fallback string
}

// languageCodes maps detected languages to tesseract model names.
// The candidate set is fixed to the languages occurring in the target
// jurisdictions; a narrow set improves lingua's precision.
var languageCodes = map[lingua.Language]string{
	lingua.Russian:   "rus",
	lingua.Ukrainian: "ukr",
	lingua.English:   "eng",
}

// NewDetector creates a Detector that falls back to the given tesseract
// language code when detection is impossible.
func NewDetector(fallback string) *Detector {
	languages := make([]lingua.Language, 0, len(languageCodes))
	for l := range languageCodes {
		languages = append(languages, l)
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
		fallback: fallback,
	}
}

// OCRLanguage returns the tesseract language code for the sample text,
// or the fallback when the sample is too short or detection fails.
func (d *Detector) OCRLanguage(sample string) string {
	sample = strings.TrimSpace(sample)
	if len(sample) < MinSampleLength {
		return d.fallback
	}

	language, ok := d.detector.DetectLanguageOf(sample)
	if !ok {
		return d.fallback
	}

	code, ok := languageCodes[language]
	if !ok {
		return d.fallback
	}
	return code
}
