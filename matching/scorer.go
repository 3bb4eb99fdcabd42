package matching

import (
	"strconv"

	"petitionserver/matching/algorithms"
)

// FieldScorer computes per-field similarities between two normalized
// records. The scorer is pure and stateless: it never consults the block
// index or configuration, and the same input pair always produces the same
// score map.
type FieldScorer struct {
	metrics *algorithms.SimilarityMetrics
}

// NewFieldScorer creates a new field scorer
func NewFieldScorer() *FieldScorer {
	return &FieldScorer{metrics: algorithms.NewSimilarityMetrics()}
}

// Score computes a similarity in [0, 1] for every identity field pair.
// Empty-vs-empty scores 1.0, empty-vs-nonempty 0.0.
func (fs *FieldScorer) Score(a, b NormalizedRecord) map[string]float64 {
	scores := make(map[string]float64, len(Fields))
	for _, field := range Fields {
		scores[field] = fs.scoreField(field, a.Field(field), b.Field(field))
	}
	return scores
}

// scoreField dispatches a single field pair to the measure appropriate for
// that field's content
func (fs *FieldScorer) scoreField(field, a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	switch field {
	case FieldStreetNumber:
		// A transcription error in a house number changes meaning, not
		// spelling: exact numeric equality or nothing. A value that does
		// not parse as a number is a recovered scoring failure, not an
		// abort of the whole record.
		numA, errA := strconv.Atoi(a)
		numB, errB := strconv.Atoi(b)
		if errA != nil || errB != nil {
			return 0.0
		}
		if numA == numB {
			return 1.0
		}
		return 0.0

	case FieldStreetType, FieldStreetDirSuffix:
		// Too short for edit distance to be meaningful
		return fs.metrics.BigramSimilarity(a, b)

	default:
		return fs.metrics.DamerauLevenshteinSimilarity(a, b)
	}
}
