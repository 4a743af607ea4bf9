package model

// Page represents one page of a volume with its extracted text.
//
// Pages are keyed by (VolumeNumber, PageNumber) and always reference an
// existing Volume. PageNumber is 1-based and never exceeds the volume's
// TotalPages.
type Page struct {
	// VolumeNumber is the owning volume's inferred number.
	VolumeNumber int `json:"volume_number"`

	// PageNumber is the 1-based page number within the volume.
	PageNumber int `json:"page_number"`

	// Text is the extracted page text. Empty when extraction failed;
	// extraction failures degrade to empty text rather than aborting
	// the volume.
	Text string `json:"text"`

	// ImagePath is the rasterized page image in the cache directory.
	// Empty when no image was produced.
	ImagePath string `json:"image_path,omitempty"`

	// OCRConfidence is the OCR engine's confidence in [0,1].
	// Nil when the text came from the PDF text layer rather than OCR.
	OCRConfidence *float64 `json:"ocr_confidence,omitempty"`

	// Metadata carries page-level attribution used by search filters
	// and the comparison sweep.
	Metadata PageMetadata `json:"metadata"`
}

// PageMetadata holds structured tags attached to a page.
type PageMetadata struct {
	// DocumentType is the derived legal document type of the page
	// (e.g. "постановление"), not the volume's scan classification.
	DocumentType string `json:"document_type,omitempty"`

	// Author is the organizational role attributed to the page
	// (e.g. "investigator", "prosecutor"). Attribution is supplied
	// externally; casescan never guesses it from content.
	Author string `json:"author,omitempty"`

	// Date is the document date as written on the page, if extracted.
	Date string `json:"date,omitempty"`
}

// Confidence returns the OCR confidence, or 1.0 for text-layer pages.
// Text-layer extraction is treated as fully confident.
func (p *Page) Confidence() float64 {
	if p.OCRConfidence == nil {
		return 1.0
	}
	return *p.OCRConfidence
}
