package model

// DocumentRef identifies one side of a comparison: a span of pages
// attributed to a case participant, with the concatenated original text.
type DocumentRef struct {
	// VolumeNumber is the volume the span belongs to.
	VolumeNumber int `json:"volume_number"`

	// PageRange describes the span, e.g. "12-15" or "7".
	PageRange string `json:"page_range"`

	// Author is the organizational role the span is attributed to.
	Author string `json:"author"`

	// Text is the original (non-normalized) text of the span.
	// Fragment positions are offsets into this text.
	Text string `json:"text"`
}

// MatchedFragment is a sentence-level span shared between the two
// compared documents above the fragment similarity threshold.
type MatchedFragment struct {
	// Text is the matched sentence from the first document, in its
	// original form.
	Text string `json:"text"`

	// Position1 is the approximate character offset of the fragment in
	// the first document's original text.
	Position1 int `json:"position1"`

	// Position2 is the approximate character offset of the matching
	// sentence in the second document's original text.
	Position2 int `json:"position2"`
}

// Comparison is the persisted result of comparing two attributed
// document spans. Comparisons are immutable once written; rerunning a
// comparison overwrites the record by ID.
type Comparison struct {
	// ID uniquely identifies the comparison record.
	ID string `json:"id"`

	// Doc1 and Doc2 are the compared document references.
	// Similarity is symmetric, so their order carries no meaning.
	Doc1 DocumentRef `json:"doc1"`
	Doc2 DocumentRef `json:"doc2"`

	// TextSimilarity is the normalized edit-distance similarity of the
	// two texts as a percentage in [0,100], rounded to two decimals.
	TextSimilarity float64 `json:"text_similarity"`

	// VisualSimilarity is the page-image similarity percentage in
	// [0,100]. Nil when no visual comparator is configured or either
	// side has no page image.
	VisualSimilarity *float64 `json:"visual_similarity,omitempty"`

	// MatchedFragments lists sentence-level matches between the texts.
	MatchedFragments []MatchedFragment `json:"matched_fragments,omitempty"`

	// IsSuspicious is true when any suspiciousness condition fired:
	// text similarity, visual similarity, or fragment count.
	IsSuspicious bool `json:"is_suspicious"`

	// SuspiciousReason explains which condition fired, for the report.
	SuspiciousReason string `json:"suspicious_reason,omitempty"`

	// HumanReview is the recommendation shown to the reviewer.
	HumanReview string `json:"human_review"`
}
