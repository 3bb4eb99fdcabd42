package algorithms

import "testing"

func TestSoundexEncode(t *testing.T) {
	soundex := NewSoundex()

	tests := []struct {
		input    string
		expected string
	}{
		{"SMITH", "S530"},
		{"SMYTH", "S530"}, // classic OCR/spelling variant collapses to the same code
		{"ROBERT", "R163"},
		{"RUPERT", "R163"},
		{"ASHCRAFT", "A261"}, // H does not separate S and C
		{"TYMCZAK", "T522"},
		{"PFISTER", "P236"},
		{"JACKSON", "J250"},
		{"", ""},
		{"123", ""},
	}

	for _, tt := range tests {
		result := soundex.Encode(tt.input)
		if result != tt.expected {
			t.Errorf("Soundex.Encode(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestSoundexEncodeCaseInsensitive(t *testing.T) {
	soundex := NewSoundex()

	if soundex.Encode("smith") != soundex.Encode("SMITH") {
		t.Error("Soundex.Encode should be case insensitive")
	}
}

func TestSoundexSimilarity(t *testing.T) {
	soundex := NewSoundex()

	if got := soundex.Similarity("SMITH", "SMYTH"); got != 1.0 {
		t.Errorf("Similarity(SMITH, SMYTH) = %f, want 1.0", got)
	}
	if got := soundex.Similarity("", ""); got != 1.0 {
		t.Errorf("Similarity of two empty strings = %f, want 1.0", got)
	}
	if got := soundex.Similarity("SMITH", ""); got != 0.0 {
		t.Errorf("Similarity against empty = %f, want 0.0", got)
	}

	partial := soundex.Similarity("SMITH", "SCHMIDT")
	if partial <= 0.0 || partial > 1.0 {
		t.Errorf("Similarity(SMITH, SCHMIDT) = %f, want value in (0, 1]", partial)
	}
}
