package compare

import "testing"

// TestNormalize tests case folding, punctuation removal, and
// whitespace collapse.
func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"already normal", "суд решил", "суд решил"},
		{"case folding", "СУД РЕШИЛ", "суд решил"},
		{"punctuation stripped", "Суд, рассмотрев дело, решил:", "суд рассмотрев дело решил"},
		{"whitespace collapsed", "суд \t\n  решил", "суд решил"},
		{"digits kept", "дело № 123/2024", "дело 1232024"},
		{"mixed scripts", "Decision of the Суд!", "decision of the суд"},
		{"only punctuation", "...!?—", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

// TestSplitSentences tests sentence splitting and the approximate
// offset accounting.
func TestSplitSentences(t *testing.T) {
	t.Parallel()

	t.Run("offsets accumulate", func(t *testing.T) {
		t.Parallel()
		spans := splitSentences("Первое предложение. Второе предложение! Третье?")
		if len(spans) != 3 {
			t.Fatalf("got %d spans, expected 3", len(spans))
		}
		if spans[0].offset != 0 {
			t.Errorf("first offset = %d, expected 0", spans[0].offset)
		}
		for i := 1; i < len(spans); i++ {
			if spans[i].offset <= spans[i-1].offset {
				t.Errorf("offset %d (%d) not after offset %d (%d)",
					i, spans[i].offset, i-1, spans[i-1].offset)
			}
		}
	})

	t.Run("empty segments dropped", func(t *testing.T) {
		t.Parallel()
		spans := splitSentences("Одно предложение...   ")
		if len(spans) != 1 {
			t.Fatalf("got %d spans, expected 1", len(spans))
		}
		if spans[0].text != "Одно предложение" {
			t.Errorf("got %q", spans[0].text)
		}
	})

	t.Run("no terminal punctuation", func(t *testing.T) {
		t.Parallel()
		spans := splitSentences("текст без точки")
		if len(spans) != 1 || spans[0].text != "текст без точки" {
			t.Fatalf("got %+v", spans)
		}
	})
}

// TestStripBoilerplate tests phrase removal before scoring.
func TestStripBoilerplate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		text     string
		phrases  []string
		expected string
	}{
		{
			name:     "no phrases",
			text:     "именем российской федерации суд решил",
			phrases:  nil,
			expected: "именем российской федерации суд решил",
		},
		{
			name:     "phrase removed case-insensitively",
			text:     "ИМЕНЕМ РОССИЙСКОЙ ФЕДЕРАЦИИ суд решил",
			phrases:  []string{"именем российской федерации"},
			expected: " суд решил",
		},
		{
			name:     "repeated occurrences",
			text:     "суд решил суд решил",
			phrases:  []string{"суд решил"},
			expected: "   ",
		},
		{
			name:     "absent phrase is a no-op",
			text:     "постановление",
			phrases:  []string{"приговор"},
			expected: "постановление",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := stripBoilerplate(tc.text, tc.phrases); got != tc.expected {
				t.Errorf("stripBoilerplate() = %q, expected %q", got, tc.expected)
			}
		})
	}
}
