// Package vision declares the vision-reasoning capabilities consumed
// by casescan.
//
// The model behind these interfaces is external and optional: when no
// implementation is configured, visual comparison and page analysis
// report "no data" rather than failing. casescan deliberately does not
// guess a prompt protocol for any particular model; an integration
// supplies its own implementation.
package vision

import "context"

// Comparator scores the visual similarity of two page images.
type Comparator interface {
	// Compare returns a similarity percentage in [0,100] for the two
	// images.
	Compare(ctx context.Context, imagePath1, imagePath2 string) (float64, error)
}

// Detection is one structured finding on a page image (a stamp, a
// signature, a handwritten note).
type Detection struct {
	// Kind labels the detection, e.g. "stamp" or "signature".
	Kind string `json:"kind"`

	// Description is the model's free-text description.
	Description string `json:"description,omitempty"`

	// Confidence is the model's confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// Analyzer extracts structured detections from a single page image.
type Analyzer interface {
	Analyze(ctx context.Context, imagePath string) ([]Detection, error)
}
