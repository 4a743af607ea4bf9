package lang

import "testing"

// TestOCRLanguage tests detection and fallback behavior.
func TestOCRLanguage(t *testing.T) {
	t.Parallel()

	d := NewDetector("rus")

	testCases := []struct {
		name     string
		sample   string
		expected string
	}{
		{
			name:     "russian legal text",
			sample:   "Суд, рассмотрев материалы уголовного дела, постановил признать обвиняемого виновным",
			expected: "rus",
		},
		{
			name:     "ukrainian legal text",
			sample:   "Суд, розглянувши матеріали кримінальної справи, ухвалив визнати обвинуваченого винним",
			expected: "ukr",
		},
		{
			name:     "english text",
			sample:   "The court, having considered the case materials, ruled that the defendant is guilty",
			expected: "eng",
		},
		{
			name:     "too short falls back",
			sample:   "стр. 12",
			expected: "rus",
		},
		{
			name:     "empty falls back",
			sample:   "",
			expected: "rus",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := d.OCRLanguage(tc.sample); got != tc.expected {
				t.Errorf("OCRLanguage(%q) = %q, expected %q", tc.sample, got, tc.expected)
			}
		})
	}
}
