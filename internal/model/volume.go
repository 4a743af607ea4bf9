package model

import "time"

// DocumentType classifies how a volume's text is stored in the PDF.
// The classification drives the extraction strategy: scanned volumes
// need OCR, text volumes have a usable text layer, mixed volumes need
// per-page fallback.
type DocumentType string

// Document type values.
const (
	// DocumentTypeScanned marks volumes with no usable text layer.
	// Pages are raster images produced by a scanner.
	DocumentTypeScanned DocumentType = "scanned"

	// DocumentTypeText marks volumes with a complete text layer.
	DocumentTypeText DocumentType = "text"

	// DocumentTypeMixed marks volumes where some pages have text and
	// others are scanned images.
	DocumentTypeMixed DocumentType = "mixed"
)

// IndexingStatus tracks a volume's position in the indexing lifecycle.
// Valid transitions: pending -> processing -> completed or error.
// A completed volume is skipped on subsequent indexing runs; an error
// volume is retried from page 1.
type IndexingStatus string

// Indexing status values.
const (
	IndexingStatusPending    IndexingStatus = "pending"
	IndexingStatusProcessing IndexingStatus = "processing"
	IndexingStatusCompleted  IndexingStatus = "completed"
	IndexingStatusError      IndexingStatus = "error"
)

// Volume represents one case-file PDF, possibly several hundred pages.
//
// Design decision: FilePath is the identity key, not VolumeNumber.
// Volume numbers are inferred from filenames and collisions are
// expected (e.g. two directories both containing "том 1.pdf"), so the
// number is informational while the path is authoritative.
type Volume struct {
	// VolumeNumber is inferred from the filename. Zero when no number
	// could be inferred. Not guaranteed unique.
	VolumeNumber int `json:"volume_number"`

	// FilePath is the absolute path of the PDF and the unique identity
	// of the volume in the store.
	FilePath string `json:"file_path"`

	// FileSize is the PDF file size in bytes.
	FileSize int64 `json:"file_size"`

	// TotalPages is the page count reported by the PDF reader.
	TotalPages int `json:"total_pages"`

	// DocumentType is the scanned/text/mixed classification.
	DocumentType DocumentType `json:"document_type"`

	// Metadata holds the embedded PDF document information.
	Metadata VolumeMetadata `json:"metadata"`

	// IndexingStatus is the volume's position in the indexing lifecycle.
	IndexingStatus IndexingStatus `json:"indexing_status"`

	// IndexingProgress is the percentage of pages processed, in [0,100].
	IndexingProgress float64 `json:"indexing_progress"`
}

// VolumeMetadata holds document information embedded in the PDF.
// All fields may be empty; scanners frequently omit them.
type VolumeMetadata struct {
	// Title is the embedded document title.
	Title string `json:"title,omitempty"`

	// Author is the embedded document author.
	Author string `json:"author,omitempty"`

	// CreationDate is when the PDF was created, if recorded.
	CreationDate time.Time `json:"creation_date,omitzero"`

	// ModificationDate is when the PDF was last modified, if recorded.
	ModificationDate time.Time `json:"modification_date,omitzero"`

	// Scanner describes the device that produced a scanned volume,
	// when EXIF data embedded in page images reveals it.
	Scanner *ScannerFingerprint `json:"scanner,omitempty"`
}

// ScannerFingerprint identifies the device and software that produced
// a scanned volume. Extracted from EXIF metadata of images embedded in
// the PDF pages. Two volumes sharing a fingerprint were likely produced
// on the same device, which is itself forensic evidence.
type ScannerFingerprint struct {
	// Make is the device manufacturer (EXIF Make tag).
	Make string `json:"make,omitempty"`

	// Model is the device model (EXIF Model tag).
	Model string `json:"model,omitempty"`

	// Software is the producing software (EXIF Software tag).
	Software string `json:"software,omitempty"`

	// CapturedAt is the EXIF DateTime of the first fingerprinted image.
	CapturedAt time.Time `json:"captured_at,omitzero"`
}

// IsEmpty reports whether the fingerprint carries no information.
func (f *ScannerFingerprint) IsEmpty() bool {
	return f == nil || (f.Make == "" && f.Model == "" && f.Software == "" && f.CapturedAt.IsZero())
}

// NewVolume creates a Volume in the pending state for the given path.
func NewVolume(filePath string) *Volume {
	return &Volume{
		FilePath:       filePath,
		DocumentType:   DocumentTypeScanned,
		IndexingStatus: IndexingStatusPending,
	}
}

// Completed reports whether the volume finished indexing successfully.
func (v *Volume) Completed() bool {
	return v.IndexingStatus == IndexingStatusCompleted
}
