package scripture

import "testing"

func TestCountChapters(t *testing.T) {
	tests := []struct {
		name     string
		passage  string
		expected int
	}{
		{
			name:     "simple range",
			passage:  "Romans 7-8",
			expected: 2,
		},
		{
			name:     "three chapter range",
			passage:  "Genesis 1-3",
			expected: 3,
		},
		{
			name:     "single chapter",
			passage:  "Psalm 119",
			expected: 1,
		},
		{
			name:     "whitespace around hyphen",
			passage:  "Romans 7 - 8",
			expected: 2,
		},
		{
			name:     "empty string",
			passage:  "",
			expected: 1,
		},
		{
			name:     "no numbers at all",
			passage:  "Philemon",
			expected: 1,
		},
		{
			name:     "inverted range clamps to one",
			passage:  "Exodus 9-7",
			expected: 1,
		},
		{
			name:     "only first range counts",
			passage:  "Genesis 1-3, 10-12",
			expected: 3,
		},
		{
			name:     "large chapter number is still one chapter",
			passage:  "Psalm 150",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CountChapters(tt.passage)
			if result != tt.expected {
				t.Errorf("CountChapters(%q) = %d, want %d", tt.passage, result, tt.expected)
			}
		})
	}
}
