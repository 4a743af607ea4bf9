package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/caseforge/casescan/internal/cache"
	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/lang"
	"github.com/caseforge/casescan/internal/model"
	"github.com/caseforge/casescan/internal/ocr"
	"github.com/caseforge/casescan/internal/pdf"
	"github.com/caseforge/casescan/internal/vision"
)

// Classification thresholds, in characters of extracted text.
const (
	// scannedTotalThreshold: a volume whose sampled pages yield less
	// text than this in total has no usable text layer.
	scannedTotalThreshold = 100

	// scannedPageThreshold: average per-page text below this means the
	// text layer is junk (page numbers, stamps).
	scannedPageThreshold = 50

	// textPageThreshold: average per-page text above this means a full
	// text layer.
	textPageThreshold = 500

	// classifySamplePages bounds how many pages are read for
	// classification. The averages converge long before that on real
	// volumes.
	classifySamplePages = 10
)

// Ingestor processes case-file PDFs into pages.
type Ingestor struct {
	cfg    *config.Config
	logger *slog.Logger

	reader   pdf.Reader
	cache    *cache.TextCache
	factory  ocr.Factory
	detector *lang.Detector
	analyzer vision.Analyzer
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithAnalyzer wires an external page-analysis capability, enabling
// the sampled multimodal phase when the config asks for it.
func WithAnalyzer(a vision.Analyzer) Option {
	return func(ing *Ingestor) { ing.analyzer = a }
}

// New creates an Ingestor. factory may be nil when OCR is disabled.
func New(cfg *config.Config, logger *slog.Logger, reader pdf.Reader, textCache *cache.TextCache, factory ocr.Factory, opts ...Option) *Ingestor {
	ing := &Ingestor{
		cfg:      cfg,
		logger:   logger,
		reader:   reader,
		cache:    textCache,
		factory:  factory,
		detector: lang.NewDetector(cfg.OCRLanguage),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Metadata builds a Volume record for the PDF at path: file size,
// embedded document information, inferred volume number, and the
// scanned/text/mixed classification.
//
// A PDF that cannot be parsed still yields a volume: classification
// falls back to scanned and the error is logged, not returned. The
// page loop later degrades per page.
func (ing *Ingestor) Metadata(ctx context.Context, path string) (*model.Volume, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat volume file: %w", err)
	}

	volume := model.NewVolume(path)
	volume.VolumeNumber = InferVolumeNumber(path)
	volume.FileSize = stat.Size()

	info, err := ing.reader.Info(ctx, path)
	if err != nil {
		ing.logger.WarnContext(ctx, "failed to read pdf info, classifying as scanned",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return volume, nil
	}

	volume.TotalPages = info.PageCount
	volume.Metadata = model.VolumeMetadata{
		Title:            info.Title,
		Author:           info.Author,
		CreationDate:     info.CreationDate,
		ModificationDate: info.ModificationDate,
	}
	volume.DocumentType = ing.classify(ctx, path, info.PageCount)

	return volume, nil
}

// classify samples page text lengths and derives the document type.
func (ing *Ingestor) classify(ctx context.Context, path string, totalPages int) model.DocumentType {
	sample := totalPages
	if sample > classifySamplePages {
		sample = classifySamplePages
	}
	if sample == 0 {
		return model.DocumentTypeScanned
	}

	// Thresholds are in characters; byte length would double-count
	// Cyrillic.
	total := 0
	for page := 1; page <= sample; page++ {
		text, err := ing.reader.PageText(ctx, path, page)
		if err != nil {
			continue
		}
		total += utf8.RuneCountInString(strings.TrimSpace(text))
	}

	average := total / sample
	switch {
	case total < scannedTotalThreshold:
		return model.DocumentTypeScanned
	case average < scannedPageThreshold:
		return model.DocumentTypeScanned
	case average > textPageThreshold:
		return model.DocumentTypeText
	default:
		return model.DocumentTypeMixed
	}
}

// ocrLanguage picks the OCR language for a volume by detecting the
// language of the first page with a usable text layer. Scanned volumes
// without any direct text keep the configured default.
func (ing *Ingestor) ocrLanguage(ctx context.Context, path string, totalPages int) string {
	sample := totalPages
	if sample > classifySamplePages {
		sample = classifySamplePages
	}
	for page := 1; page <= sample; page++ {
		text, err := ing.reader.PageText(ctx, path, page)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); len(text) >= lang.MinSampleLength {
			return ing.detector.OCRLanguage(text)
		}
	}
	return ing.cfg.OCRLanguage
}
