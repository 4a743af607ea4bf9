// Package pdf defines the PDF capability consumed by the ingestion
// pipeline and provides a file-based implementation.
//
// The pipeline needs three things from a PDF: document information
// (page count, embedded metadata), the text layer of a single page,
// and a page image for OCR and visual comparison. Rendering internals
// are out of scope; the implementation extracts the scan image embedded
// in the page, which for scanned case files is the page image.
package pdf
