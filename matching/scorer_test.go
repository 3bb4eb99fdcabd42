package matching

import (
	"math"
	"testing"
)

func TestFieldScorerExactMatch(t *testing.T) {
	scorer := NewFieldScorer()
	normalizer := NewNormalizer()

	rec := normalizer.Normalize(IdentityRecord{
		FirstName: "JOHN", LastName: "SMITH", StreetNumber: "100",
		StreetName: "MAIN", StreetType: "ST", StreetDirSuffix: "N",
	})

	scores := scorer.Score(rec, rec)
	for field, score := range scores {
		if score != 1.0 {
			t.Errorf("identical records: field %s scored %f, want 1.0", field, score)
		}
	}
}

func TestFieldScorerEmptyHandling(t *testing.T) {
	scorer := NewFieldScorer()

	scores := scorer.Score(
		NormalizedRecord{FirstName: "JOHN"},
		NormalizedRecord{LastName: "SMITH"},
	)

	if scores[FieldFirstName] != 0.0 {
		t.Errorf("empty-vs-nonempty first name scored %f, want 0.0", scores[FieldFirstName])
	}
	if scores[FieldLastName] != 0.0 {
		t.Errorf("nonempty-vs-empty last name scored %f, want 0.0", scores[FieldLastName])
	}
	// Fields empty on both sides are not evidence against a match
	if scores[FieldStreetDirSuffix] != 1.0 {
		t.Errorf("empty-vs-empty dir suffix scored %f, want 1.0", scores[FieldStreetDirSuffix])
	}
}

func TestFieldScorerStreetNumberExactOrZero(t *testing.T) {
	scorer := NewFieldScorer()

	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		{"100", "100", 1.0},
		{"100", "0100", 1.0}, // same number, different transcription
		{"100", "101", 0.0},  // edit distance 1 but a different address
		{"100", "1000", 0.0},
		{"10O", "100", 0.0}, // malformed number recovers as zero, not an error
		{"10O", "10O", 1.0}, // still an exact string match
	}

	for _, tt := range tests {
		scores := scorer.Score(
			NormalizedRecord{StreetNumber: tt.a},
			NormalizedRecord{StreetNumber: tt.b},
		)
		if scores[FieldStreetNumber] != tt.expected {
			t.Errorf("street number %q vs %q scored %f, want %f", tt.a, tt.b, scores[FieldStreetNumber], tt.expected)
		}
	}
}

func TestFieldScorerTranspositionTolerance(t *testing.T) {
	scorer := NewFieldScorer()

	scores := scorer.Score(
		NormalizedRecord{LastName: "SMITH"},
		NormalizedRecord{LastName: "SMIHT"},
	)

	// A single transposition in a five-letter surname should stay a strong
	// signal
	if scores[FieldLastName] < 0.75 {
		t.Errorf("transposed surname scored %f, want >= 0.75", scores[FieldLastName])
	}
}

func TestFieldScorerDeterministic(t *testing.T) {
	scorer := NewFieldScorer()
	a := NormalizedRecord{FirstName: "JON", LastName: "SMYTH", StreetNumber: "100", StreetName: "MIAN"}
	b := NormalizedRecord{FirstName: "JOHN", LastName: "SMITH", StreetNumber: "100", StreetName: "MAIN"}

	first := scorer.Score(a, b)
	for i := 0; i < 5; i++ {
		again := scorer.Score(a, b)
		for field := range first {
			if math.Abs(first[field]-again[field]) > 0 {
				t.Fatalf("score for %s not stable: %f vs %f", field, first[field], again[field])
			}
		}
	}
}
