// Package ingest turns case-file PDFs into indexed pages: volume
// metadata and classification, per-page text extraction with OCR
// fallback and caching, and a cancellable progress stream over the
// whole volume.
//
// Extraction is deliberately forgiving. A page that cannot be read
// becomes an empty page with a warning, never a failed volume; a
// volume that cannot be parsed is classified scanned and processed
// page by page. Court archives contain malformed PDFs, and losing a
// whole volume over one bad object helps nobody.
package ingest
