// Package imagemeta extracts scanner fingerprints from page images.
//
// Scanned case files embed JPEG images produced by office scanners,
// and scanner firmware writes EXIF metadata into them: device make and
// model, processing software, timestamps. Two volumes sharing a
// fingerprint were digitized on the same device, which matters when
// the case narrative claims they came from independent offices.
package imagemeta

import (
	"fmt"
	"io"
	"os"
	"time"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/caseforge/casescan/internal/model"
)

// maxImageBytes bounds how much of an image is read for EXIF search.
// EXIF lives in the leading segments; 5MB covers any sane header while
// keeping memory bounded for full-page 600dpi scans.
const maxImageBytes = 5 * 1024 * 1024

// exifTimeFormat is the EXIF DateTime spelling.
const exifTimeFormat = "2006:01:02 15:04:05"

// FromFile extracts a scanner fingerprint from the image at path.
// Returns nil (not an error) when the image carries no EXIF data,
// the common case for images re-encoded by PDF producers.
func FromFile(path string) (*model.ScannerFingerprint, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from our own cache
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	return FromBytes(data), nil
}

// FromBytes extracts a scanner fingerprint from raw image bytes.
// Returns nil when no EXIF data is present or parseable.
func FromBytes(data []byte) *model.ScannerFingerprint {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var fp model.ScannerFingerprint
	for _, entry := range entries {
		switch entry.TagName {
		case "Make":
			fp.Make = entry.Formatted
		case "Model":
			fp.Model = entry.Formatted
		case "Software", "ProcessingSoftware":
			if fp.Software == "" {
				fp.Software = entry.Formatted
			}
		case "DateTime", "DateTimeOriginal", "DateTimeDigitized":
			if fp.CapturedAt.IsZero() {
				if t, err := time.Parse(exifTimeFormat, entry.Formatted); err == nil {
					fp.CapturedAt = t
				}
			}
		}
	}

	if fp.IsEmpty() {
		return nil
	}
	return &fp
}
