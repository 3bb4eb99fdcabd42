package matching

import (
	"petitionserver/matching/algorithms"
)

// Candidate a voter-roll entry as stored in the block index: the source
// record plus its precomputed normalized view, so candidate scoring never
// re-normalizes the roll side.
type Candidate struct {
	Voter VoterRecord
	Norm  NormalizedRecord
}

// BlockIndex partitions the voter roll into small candidate buckets so that
// each signature is compared against voters plausibly at the same address
// instead of the whole roll.
//
// The primary key is normalized last name plus street number. The fallback
// key is the Soundex code of the last name; it is consulted only when the
// primary bucket is empty, which typically means OCR corrupted a digit of
// the street number or a letter of the surname. Candidates found through
// the fallback compete on equal footing in scoring: blocking restricts the
// candidate set and never pre-ranks it.
type BlockIndex struct {
	primary  map[string][]Candidate
	fallback map[string][]Candidate
	soundex  *algorithms.Soundex
	size     int
}

// BuildBlockIndex indexes a voter roll snapshot. The normalizer must be the
// same one applied to signatures at lookup time, otherwise the block keys
// of the two sides drift apart.
func BuildBlockIndex(voters []VoterRecord, normalizer *Normalizer) *BlockIndex {
	idx := &BlockIndex{
		primary:  make(map[string][]Candidate, len(voters)),
		fallback: make(map[string][]Candidate),
		soundex:  algorithms.NewSoundex(),
		size:     len(voters),
	}

	for _, voter := range voters {
		cand := Candidate{Voter: voter, Norm: normalizer.Normalize(voter.IdentityRecord)}

		pk := primaryBlockKey(cand.Norm)
		idx.primary[pk] = append(idx.primary[pk], cand)

		if fk := idx.soundex.Encode(cand.Norm.LastName); fk != "" {
			idx.fallback[fk] = append(idx.fallback[fk], cand)
		}
	}

	return idx
}

// Lookup returns the candidate bucket for a normalized signature. An empty
// result means neither the primary nor the phonetic fallback key produced
// candidates; the caller short-circuits such signatures to Unmatched
// without invoking the scorer.
func (idx *BlockIndex) Lookup(norm NormalizedRecord) []Candidate {
	if bucket := idx.primary[primaryBlockKey(norm)]; len(bucket) > 0 {
		return bucket
	}

	fk := idx.soundex.Encode(norm.LastName)
	if fk == "" {
		return nil
	}
	return idx.fallback[fk]
}

// Size returns the number of indexed voter records
func (idx *BlockIndex) Size() int {
	return idx.size
}

// primaryBlockKey derives the primary bucket key from the
// blocking-relevant normalized fields
func primaryBlockKey(norm NormalizedRecord) string {
	return norm.LastName + "|" + norm.StreetNumber
}
