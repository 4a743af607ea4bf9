package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/caseforge/casescan/internal/cache"
	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/ocr"
	"github.com/caseforge/casescan/internal/pdf"
)

// extractedPage is the outcome of one page extraction. confidence is
// nil for text-layer pages and set for OCR output; a failed extraction
// carries empty text with confidence 0.
type extractedPage struct {
	text       string
	confidence *float64
	imagePath  string
}

// ExtractPageText extracts text for one page: cache lookup, then the
// PDF text layer, then OCR fallback when the direct text is too short
// to be real content. session may be nil when OCR is disabled.
//
// Failures degrade instead of propagating: the worst outcome is an
// empty page with confidence 0 and a warning in the log.
func (ing *Ingestor) ExtractPageText(ctx context.Context, session *ocr.Session, path string, page int, language string) extractedPage {
	if entry, ok := ing.cache.Get(path, page); ok {
		return ing.fromCache(path, page, entry)
	}

	direct, err := ing.reader.PageText(ctx, path, page)
	if err != nil {
		ing.logger.WarnContext(ctx, "page text extraction failed",
			slog.String("path", path),
			slog.Int("page", page),
			slog.String("error", err.Error()))
		direct = ""
	}
	direct = strings.TrimSpace(direct)

	if utf8.RuneCountInString(direct) >= config.DefaultMinDirectTextLength || session == nil {
		ing.putCache(path, page, cache.Entry{Text: direct, Confidence: 1, Method: cache.MethodTextLayer})
		return extractedPage{text: direct}
	}

	return ing.ocrPage(ctx, session, path, page, language, direct)
}

// ocrPage rasterizes the page and runs OCR. The short direct text is
// kept as fallback when the OCR path fails, so a stamp-only text layer
// still beats nothing.
func (ing *Ingestor) ocrPage(ctx context.Context, session *ocr.Session, path string, page int, language, direct string) extractedPage {
	imagePath := ing.cache.ImagePath(path, page)

	if err := ing.reader.PageImage(ctx, path, page, imagePath); err != nil {
		if !errors.Is(err, pdf.ErrNoPageImage) {
			ing.logger.WarnContext(ctx, "page image extraction failed",
				slog.String("path", path),
				slog.Int("page", page),
				slog.String("error", err.Error()))
		}
		return degrade(direct)
	}

	ocrCtx, cancel := context.WithTimeout(ctx, ing.cfg.OCRTimeout)
	defer cancel()

	result, err := session.Recognize(ocrCtx, language, imagePath)
	if err != nil {
		ing.logger.WarnContext(ctx, "ocr failed",
			slog.String("path", path),
			slog.Int("page", page),
			slog.String("language", language),
			slog.String("error", err.Error()))
		ep := degrade(direct)
		ep.imagePath = imagePath
		return ep
	}

	confidence := result.Confidence / 100
	ing.putCache(path, page, cache.Entry{Text: result.Text, Confidence: confidence, Method: cache.MethodOCR})
	return extractedPage{text: result.Text, confidence: &confidence, imagePath: imagePath}
}

// degrade falls back to the direct text layer. Empty direct text
// becomes an empty page with confidence 0.
func degrade(direct string) extractedPage {
	if direct != "" {
		return extractedPage{text: direct}
	}
	zero := 0.0
	return extractedPage{confidence: &zero}
}

// fromCache rebuilds an extractedPage from a cache hit, restoring the
// stored confidence instead of pretending certainty.
func (ing *Ingestor) fromCache(path string, page int, entry cache.Entry) extractedPage {
	ep := extractedPage{text: entry.Text}
	if entry.Method == cache.MethodOCR {
		confidence := entry.Confidence
		ep.confidence = &confidence
		if imagePath := ing.cache.ImagePath(path, page); fileExists(imagePath) {
			ep.imagePath = imagePath
		}
	}
	return ep
}

func (ing *Ingestor) putCache(path string, page int, entry cache.Entry) {
	if err := ing.cache.Put(path, page, entry); err != nil {
		ing.logger.Warn("failed to write text cache entry",
			slog.String("path", path),
			slog.Int("page", page),
			slog.String("error", err.Error()))
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
