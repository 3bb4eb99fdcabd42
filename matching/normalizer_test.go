package matching

import "testing"

func TestNormalizeText(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name     string
		input    IdentityRecord
		expected NormalizedRecord
	}{
		{
			name: "case folding and whitespace",
			input: IdentityRecord{
				FirstName: "  john ",
				LastName:  "smith\t jr",
			},
			expected: NormalizedRecord{
				FirstName: "JOHN",
				LastName:  "SMITH JR",
			},
		},
		{
			name: "punctuation and diacritics",
			input: IdentityRecord{
				FirstName: "José",
				LastName:  "O'Brien-Muñoz",
			},
			expected: NormalizedRecord{
				FirstName: "JOSE",
				LastName:  "OBRIEN MUNOZ",
			},
		},
		{
			name: "street type abbreviation",
			input: IdentityRecord{
				StreetNumber: "100",
				StreetName:   "Main",
				StreetType:   "Street",
			},
			expected: NormalizedRecord{
				StreetNumber: "100",
				StreetName:   "MAIN",
				StreetType:   "ST",
			},
		},
		{
			name: "direction suffix abbreviation",
			input: IdentityRecord{
				StreetDirSuffix: "North",
			},
			expected: NormalizedRecord{
				StreetDirSuffix: "N",
			},
		},
		{
			name: "embedded tokens in street name",
			input: IdentityRecord{
				StreetName: "North Main Street",
			},
			expected: NormalizedRecord{
				StreetName: "N MAIN ST",
			},
		},
		{
			name:     "missing fields stay empty",
			input:    IdentityRecord{},
			expected: NormalizedRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizer.Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%+v) = %+v, want %+v", tt.input, result, tt.expected)
			}
		})
	}
}

// Normalization must be idempotent: feeding a normalized record back
// through the normalizer yields the identical record. Both the voter roll
// and the OCR side depend on this for symmetric comparison.
func TestNormalizeIdempotent(t *testing.T) {
	normalizer := NewNormalizer()

	inputs := []IdentityRecord{
		{FirstName: "José", LastName: "O'Brien", StreetNumber: "100", StreetName: "North Main Street", StreetType: "Avenue", StreetDirSuffix: "Southwest"},
		{FirstName: "anne-marie", LastName: "van der Berg", StreetName: "ELM", StreetType: "BLVD"},
		{},
		{StreetName: "N MAIN ST", StreetType: "ST", StreetDirSuffix: "NW"},
	}

	for _, input := range inputs {
		once := normalizer.Normalize(input)
		twice := normalizer.Normalize(IdentityRecord{
			FirstName:       once.FirstName,
			LastName:        once.LastName,
			StreetNumber:    once.StreetNumber,
			StreetName:      once.StreetName,
			StreetType:      once.StreetType,
			StreetDirSuffix: once.StreetDirSuffix,
		})
		if once != twice {
			t.Errorf("normalization not idempotent for %+v: first %+v, second %+v", input, once, twice)
		}
	}
}

func TestNormalizePure(t *testing.T) {
	normalizer := NewNormalizer()
	record := IdentityRecord{FirstName: "Renée", LastName: "Smith", StreetName: "Oak Avenue"}

	first := normalizer.Normalize(record)
	for i := 0; i < 10; i++ {
		if got := normalizer.Normalize(record); got != first {
			t.Fatalf("Normalize is not stable across calls: %+v vs %+v", got, first)
		}
	}
}
