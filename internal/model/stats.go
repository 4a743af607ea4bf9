package model

// CaseStatistics summarizes the indexed case. Produced by pure
// aggregation over the store; computing it has no side effects.
type CaseStatistics struct {
	// TotalVolumes is the number of volume records in the store.
	TotalVolumes int `json:"total_volumes"`

	// CompletedVolumes is the number of volumes that finished indexing.
	CompletedVolumes int `json:"completed_volumes"`

	// TotalPages is the number of page records across all volumes.
	TotalPages int `json:"total_pages"`

	// SuspiciousComparisons is the number of persisted comparisons
	// flagged as suspicious.
	SuspiciousComparisons int `json:"suspicious_comparisons"`
}
