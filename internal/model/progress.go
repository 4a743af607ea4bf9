package model

// Phase identifies the stage an indexing run or volume ingestion is in.
type Phase string

// Progress phases, in their natural order.
const (
	// PhaseScanning covers directory discovery and volume metadata
	// extraction.
	PhaseScanning Phase = "scanning"

	// PhaseOCR covers per-page text extraction, including OCR fallback.
	PhaseOCR Phase = "ocr"

	// PhaseAnalyzing covers optional multimodal page analysis, sampled
	// every tenth page.
	PhaseAnalyzing Phase = "analyzing"

	// PhaseCompleted is the terminal success phase.
	PhaseCompleted Phase = "completed"

	// PhaseError is the terminal failure phase.
	PhaseError Phase = "error"
)

// Progress is one event in the ordered progress stream emitted by a
// volume ingestion or a full indexing run.
//
// FractionComplete increases monotonically within one stream. A run
// reserves bands of the fraction per phase: 0-0.1 scanning, 0.1-0.9
// proportional across volumes, 0.9-1.0 suspicious-pair sweep, 1.0 done.
type Progress struct {
	// Phase is the current stage.
	Phase Phase `json:"phase"`

	// FractionComplete is the overall completion fraction in [0,1].
	FractionComplete float64 `json:"fraction_complete"`

	// CurrentVolume is the volume number being processed, when known.
	CurrentVolume int `json:"current_volume,omitempty"`

	// CurrentPage is the page number being processed, when known.
	CurrentPage int `json:"current_page,omitempty"`

	// Message is a human-readable description of the event.
	Message string `json:"message,omitempty"`
}
