package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the thresholds the document-forensics pipeline was tuned
// with on real multi-volume criminal case files.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "casescan"

	// DefaultOCRLanguage is the OCR language passed to the engine when
	// language detection finds nothing better. Russian because the
	// pattern cascades target Cyrillic legal documents.
	DefaultOCRLanguage = "rus"

	// DefaultMinDirectTextLength is the text-layer length below which a
	// page is considered scanned and OCR fallback is attempted. Pages
	// with fewer than 50 characters of direct text are almost always
	// raster scans with a junk text layer (page numbers, stamps).
	DefaultMinDirectTextLength = 50

	// DefaultOCRWorkers bounds the page-OCR worker pool. OCR is CPU
	// bound; four workers saturate typical machines without starving
	// the rest of the pipeline.
	DefaultOCRWorkers = 4

	// DefaultCompareWorkers bounds the comparison sweep pool. The
	// comparison engine is a pure function, so the sweep parallelizes
	// freely; eight workers keep the O(n^2) sweep tractable.
	DefaultCompareWorkers = 8

	// DefaultMinMatchLength is the minimum sentence length, in
	// characters, for fragment matching. Shorter sentences are legal
	// formulas and produce false positives.
	DefaultMinMatchLength = 20

	// DefaultSuspiciousTextThreshold is the document-level text
	// similarity percentage at or above which a pair is suspicious.
	DefaultSuspiciousTextThreshold = 70.0

	// DefaultSuspiciousVisualThreshold is the visual similarity
	// percentage at or above which a pair is suspicious. Higher than
	// the text threshold because scanned pages of the same template
	// look alike even with different content.
	DefaultSuspiciousVisualThreshold = 80.0

	// DefaultSearchLimit is the maximum number of hits returned by a
	// search when the caller does not specify a limit.
	DefaultSearchLimit = 10

	// DefaultOCRTimeout is the per-page OCR timeout. A page that takes
	// longer is degraded to empty text with a warning.
	DefaultOCRTimeout = 2 * time.Minute
)

// Config holds all runtime options for casescan.
//
// Design decision: a single flat struct rather than nested sub-structs,
// following the same reasoning as the rest of this codebase: the option
// count is manageable and nesting would add indirection without
// benefit.
type Config struct {
	// CaseDir is the directory tree scanned recursively for PDFs.
	CaseDir string

	// DBDir is the directory holding the SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// CacheDir is the directory for page images and the text cache.
	// Defaults to the XDG cache directory.
	CacheDir string

	// UseOCR enables OCR fallback for pages with no usable text layer.
	UseOCR bool

	// UseMultimodal enables sampled multimodal page analysis during
	// ingestion (every tenth page). Requires a vision capability to be
	// configured; otherwise the phase is skipped.
	UseMultimodal bool

	// OCRLanguage is the engine language code. Overridden per volume
	// when language detection on direct text succeeds.
	OCRLanguage string

	// OCRWorkers is the page-OCR pool size.
	OCRWorkers int

	// OCRTimeout is the per-page OCR timeout.
	OCRTimeout time.Duration

	// CompareWorkers is the comparison sweep pool size.
	CompareWorkers int

	// MinMatchLength is the minimum sentence length for fragment
	// matching, in characters.
	MinMatchLength int

	// SuspiciousTextThreshold is the text similarity percentage at or
	// above which a comparison is flagged.
	SuspiciousTextThreshold float64

	// SuspiciousVisualThreshold is the visual similarity percentage at
	// or above which a comparison is flagged.
	SuspiciousVisualThreshold float64

	// StripBoilerplate removes configured standard legal phrases from
	// both texts before scoring.
	StripBoilerplate bool

	// SearchLimit is the maximum number of search hits to return.
	SearchLimit int

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// JSONReport and MarkdownReport select the report format.
	// Mutually exclusive; the default is a human-readable text report.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit path to the .casescan file.
	ConfigFilePath string

	// CaseFile holds the loaded YAML case configuration (boilerplate
	// phrases, document type keywords, attribution rules).
	CaseFile *File
}

// NewConfig creates a Config with default values.
// Defaults are non-zero, so relying on the zero value is a bug; always
// start from NewConfig.
func NewConfig() *Config {
	return &Config{
		DBDir:                     XDGDataDir(),
		CacheDir:                  XDGCacheDir(),
		UseOCR:                    true,
		OCRLanguage:               DefaultOCRLanguage,
		OCRWorkers:                DefaultOCRWorkers,
		OCRTimeout:                DefaultOCRTimeout,
		CompareWorkers:            DefaultCompareWorkers,
		MinMatchLength:            DefaultMinMatchLength,
		SuspiciousTextThreshold:   DefaultSuspiciousTextThreshold,
		SuspiciousVisualThreshold: DefaultSuspiciousVisualThreshold,
		StripBoilerplate:          true,
		SearchLimit:               DefaultSearchLimit,
	}
}

// XDGDataDir returns the XDG data directory for casescan.
// On Linux: ~/.local/share/casescan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for casescan.
// On Linux: ~/.cache/casescan
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks the configuration and returns the first problem
// found. Called once after flag parsing, before any work begins.
func (c *Config) Validate() error {
	if c.CaseDir == "" {
		return ErrNoCaseDir
	}
	if c.OCRWorkers <= 0 {
		return ErrInvalidWorkerCount
	}
	if c.CompareWorkers <= 0 {
		return ErrInvalidWorkerCount
	}
	if c.MinMatchLength <= 0 {
		return ErrInvalidMinMatchLength
	}
	if c.SuspiciousTextThreshold < 0 || c.SuspiciousTextThreshold > 100 {
		return ErrInvalidThreshold
	}
	if c.SuspiciousVisualThreshold < 0 || c.SuspiciousVisualThreshold > 100 {
		return ErrInvalidThreshold
	}
	if c.SearchLimit <= 0 {
		return ErrInvalidSearchLimit
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
