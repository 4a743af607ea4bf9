// Package ocr defines the OCR capability consumed by the ingestion
// pipeline and provides a tesseract-based implementation.
//
// The engine itself is external: casescan consumes text plus a native
// 0-100 confidence from whatever engine is configured. The Session type
// owns engine handles for one ingestion run: a handle is created
// lazily per language, reused across pages, used exclusively (OCR calls
// through one session never overlap), and released when the session
// closes, on every exit path including cancellation.
package ocr
