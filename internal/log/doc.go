// Package log provides logging helpers built on the standard slog
// package.
//
// Case-file processing routinely handles page texts of hundreds of
// kilobytes. Logging such values verbatim makes logs unreadable and can
// leak entire case documents into log aggregation systems. The
// CapHandler truncates oversized string attributes before they reach
// the underlying handler, so call sites can log text values without
// worrying about their size.
package log
