package config

import "errors"

// Configuration validation errors.
//
// Design decision: package-level sentinel errors rather than error
// values created inside Validate(). Callers can branch with errors.Is()
// while the messages stay human-readable. errors.New suffices because
// none of these carry dynamic values.
var (
	// ErrNoCaseDir is returned when no case directory is specified.
	ErrNoCaseDir = errors.New("no case directory specified: pass the directory containing the case PDFs")

	// ErrInvalidWorkerCount is returned when a worker pool size is not
	// positive. Zero workers would deadlock the pool.
	ErrInvalidWorkerCount = errors.New("invalid worker count: must be positive")

	// ErrInvalidMinMatchLength is returned when the fragment match
	// length is not positive.
	ErrInvalidMinMatchLength = errors.New("invalid minimum match length: must be positive")

	// ErrInvalidThreshold is returned when a similarity threshold is
	// outside [0,100]. Thresholds are percentages.
	ErrInvalidThreshold = errors.New("invalid similarity threshold: must be within [0,100]")

	// ErrInvalidSearchLimit is returned when the search limit is not
	// positive.
	ErrInvalidSearchLimit = errors.New("invalid search limit: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format is allowed.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
