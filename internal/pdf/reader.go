package pdf

import (
	"context"
	"errors"
	"time"
)

// Reader is the PDF capability consumed by the ingestion pipeline.
// Implementations must be safe for concurrent use: page-level workers
// call PageText and PageImage for different pages of the same file.
type Reader interface {
	// Info returns document information for the PDF at path.
	Info(ctx context.Context, path string) (*Info, error)

	// PageText extracts the text layer of the given 1-based page.
	// Returns empty text, not an error, for pages without a text layer.
	PageText(ctx context.Context, path string, page int) (string, error)

	// PageImage writes an image of the given 1-based page to destPath.
	// Returns ErrNoPageImage when the page has no extractable image.
	PageImage(ctx context.Context, path string, page int, destPath string) error
}

// ErrNoPageImage is returned by PageImage when a page carries no
// extractable image. Typical for born-digital text pages; callers
// degrade the affected feature (OCR, visual comparison) to "no data".
var ErrNoPageImage = errors.New("page has no extractable image")

// Info holds document information extracted from a PDF.
type Info struct {
	// PageCount is the number of pages.
	PageCount int

	// Title is the embedded document title, if any.
	Title string

	// Author is the embedded document author, if any.
	Author string

	// CreationDate is the embedded creation date, zero if absent.
	CreationDate time.Time

	// ModificationDate is the embedded modification date, zero if absent.
	ModificationDate time.Time
}
