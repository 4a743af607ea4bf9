package ocr

import (
	"context"
	"errors"
)

// Result is the outcome of recognizing one page image.
type Result struct {
	// Text is the recognized text.
	Text string

	// Confidence is the engine's native confidence in [0,100].
	// Callers scale it to [0,1] before storing it on a Page.
	Confidence float64
}

// Handle is a live OCR engine instance bound to one language.
// Handles are not safe for concurrent use; the Session serializes
// access. Close releases engine resources and must always be called.
type Handle interface {
	// Recognize runs OCR over the image at imagePath.
	Recognize(ctx context.Context, imagePath string) (Result, error)

	// Close releases the engine handle.
	Close() error
}

// Factory creates a Handle for the given language code (e.g. "rus").
// The Session calls it at most once per language per run.
type Factory func(language string) (Handle, error)

// ErrSessionClosed is returned when Recognize is called on a closed
// session. A closed session has released its engine handles and cannot
// be reused; create a new session for a new run.
var ErrSessionClosed = errors.New("ocr session closed")
