package compare

import "math"

// Similarity scores two raw texts as a percentage in [0,100]. Both
// sides are normalized first; the score is the Levenshtein distance
// scaled by the longer length, rounded to two decimals. Identical
// non-empty texts score exactly 100; if either side normalizes to
// empty, the score is 0.
func Similarity(text1, text2 string) float64 {
	return normalizedSimilarity(Normalize(text1), Normalize(text2))
}

// normalizedSimilarity scores two already-normalized strings.
func normalizedSimilarity(norm1, norm2 string) float64 {
	if norm1 == "" || norm2 == "" {
		return 0
	}
	if norm1 == norm2 {
		return 100
	}

	a, b := []rune(norm1), []rune(norm2)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	dist := editDistance(a, b)
	return round2(float64(maxLen-dist) / float64(maxLen) * 100)
}

// editDistance is the classic two-row Levenshtein over runes.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// round2 rounds to two decimal places, so scores compare stably across
// runs and read cleanly in reports.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
