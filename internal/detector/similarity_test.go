package detector

import (
	"math"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{
			name:     "identical strings",
			a:        "netflix.com",
			b:        "netflix.com",
			expected: 1.0,
		},
		{
			name:     "case insensitive",
			a:        "NETFLIX.COM",
			b:        "netflix.com",
			expected: 1.0,
		},
		{
			name:     "both empty",
			a:        "",
			b:        "",
			expected: 1.0,
		},
		{
			name:     "one empty",
			a:        "netflix",
			b:        "",
			expected: 0.0,
		},
		{
			name:     "one edit in thirteen characters",
			a:        "grocery store",
			b:        "grocery stor",
			expected: 1.0 - 1.0/13.0,
		},
		{
			name:     "classic edit distance example",
			a:        "kitten",
			b:        "sitting",
			expected: 1.0 - 3.0/7.0,
		},
		{
			name:     "completely different",
			a:        "abc",
			b:        "xyz",
			expected: 0.0,
		},
		{
			// Accented characters are multibyte; the ratio must use rune
			// counts, not byte lengths
			name:     "multibyte descriptions",
			a:        "ààààà",
			b:        "àààbc",
			expected: 1.0 - 2.0/5.0,
		},
		{
			name:     "multibyte cafe vendor",
			a:        "café münchen",
			b:        "café münchen 42",
			expected: 1.0 - 3.0/15.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := "city utilities", "city utility co"

	if Similarity(a, b) != Similarity(b, a) {
		t.Errorf("Similarity is not symmetric for %q and %q", a, b)
	}
}
