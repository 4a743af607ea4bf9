// Package database implements the persistent case index on SQLite:
// volume and page storage, a synchronized FTS5 full-text index,
// comparison records, and aggregate statistics.
//
// Schema creation is idempotent and runs on every open, so a database
// produced by an older binary is upgraded in place. All writes use
// replace-on-conflict semantics keyed by the natural identity of the
// row (volume file path, volume+page number, comparison ID), which is
// what makes incremental re-indexing safe.
package database
