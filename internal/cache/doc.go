// Package cache provides the page-content cache used by ingestion.
//
// Extraction is the expensive part of indexing: OCR of one scanned
// page takes seconds. The cache stores extracted text together with
// its OCR confidence, keyed by a deterministic hash of (file path,
// page number), so re-indexing an unchanged case directory touches the
// OCR engine only for pages it has never seen.
//
// Entries are written atomically (temp file + rename), which makes the
// cache safe for concurrent writers: two workers writing the same key
// produce the same content and last-writer-wins is harmless.
package cache
