package matching

import "testing"

func testRoll() []VoterRecord {
	return []VoterRecord{
		{ID: "v1", IdentityRecord: IdentityRecord{FirstName: "JOHN", LastName: "SMITH", StreetNumber: "100", StreetName: "MAIN", StreetType: "ST"}},
		{ID: "v2", IdentityRecord: IdentityRecord{FirstName: "JANE", LastName: "SMITH", StreetNumber: "102", StreetName: "MAIN", StreetType: "ST"}},
		{ID: "v3", IdentityRecord: IdentityRecord{FirstName: "BOB", LastName: "JONES", StreetNumber: "100", StreetName: "ELM", StreetType: "AVE"}},
	}
}

func TestBlockIndexPrimaryLookup(t *testing.T) {
	normalizer := NewNormalizer()
	index := BuildBlockIndex(testRoll(), normalizer)

	sig := normalizer.Normalize(IdentityRecord{FirstName: "JOHN", LastName: "SMITH", StreetNumber: "100"})
	candidates := index.Lookup(sig)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 primary candidate, got %d", len(candidates))
	}
	if candidates[0].Voter.ID != "v1" {
		t.Errorf("expected candidate v1, got %s", candidates[0].Voter.ID)
	}
}

func TestBlockIndexFallbackLookup(t *testing.T) {
	normalizer := NewNormalizer()
	index := BuildBlockIndex(testRoll(), normalizer)

	// Street number misread by OCR: the primary bucket misses, but the
	// surname's phonetic code recovers both SMITH households
	sig := normalizer.Normalize(IdentityRecord{FirstName: "JOHN", LastName: "SMITH", StreetNumber: "700"})
	candidates := index.Lookup(sig)

	if len(candidates) != 2 {
		t.Fatalf("expected 2 fallback candidates, got %d", len(candidates))
	}

	// Surname misread too: SMYTH still collapses to SMITH's soundex code
	sig = normalizer.Normalize(IdentityRecord{LastName: "SMYTH", StreetNumber: "700"})
	candidates = index.Lookup(sig)
	if len(candidates) != 2 {
		t.Fatalf("expected phonetic fallback to recover SMITH voters, got %d candidates", len(candidates))
	}
}

func TestBlockIndexNoCandidates(t *testing.T) {
	normalizer := NewNormalizer()
	index := BuildBlockIndex(testRoll(), normalizer)

	sig := normalizer.Normalize(IdentityRecord{LastName: "WILLIAMS", StreetNumber: "999"})
	if candidates := index.Lookup(sig); len(candidates) != 0 {
		t.Errorf("expected no candidates for unknown surname, got %d", len(candidates))
	}

	// A record with no usable surname at all
	sig = normalizer.Normalize(IdentityRecord{StreetNumber: "100"})
	if candidates := index.Lookup(sig); len(candidates) != 0 {
		t.Errorf("expected no candidates for empty surname, got %d", len(candidates))
	}
}

func TestBlockIndexSize(t *testing.T) {
	index := BuildBlockIndex(testRoll(), NewNormalizer())
	if index.Size() != 3 {
		t.Errorf("Size() = %d, want 3", index.Size())
	}
}
