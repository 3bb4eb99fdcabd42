package matching

import "sort"

// histogramBuckets number of fixed-width score buckets in MatchStats
const histogramBuckets = 10

// MatchStats aggregate statistics over one matching run. Recomputed fresh
// for every run, never mutated in place.
type MatchStats struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Ambiguous int `json:"ambiguous"`

	MinScore    float64 `json:"min_score"`
	MaxScore    float64 `json:"max_score"`
	MeanScore   float64 `json:"mean_score"`
	MedianScore float64 `json:"median_score"`

	// Histogram counts aggregate scores over ten fixed buckets:
	// [0.0,0.1), [0.1,0.2), ... [0.9,1.0]
	Histogram [histogramBuckets]int `json:"histogram"`

	// ExtractionEmpty distinguishes "OCR found no signatures" from a run
	// where every signature matched; a zero-count stats block alone cannot
	// tell the two apart
	ExtractionEmpty bool `json:"extraction_empty"`
}

// Aggregate folds an ordered result sequence into the output table and its
// summary statistics. The returned table preserves the input order exactly;
// aggregation never re-invokes matching.
func Aggregate(results []MatchResult) ([]MatchResult, MatchStats) {
	stats := MatchStats{Total: len(results)}

	if len(results) == 0 {
		stats.ExtractionEmpty = true
		return results, stats
	}

	scores := make([]float64, 0, len(results))
	var sum float64
	for _, res := range results {
		switch res.Decision {
		case DecisionMatched:
			stats.Matched++
		case DecisionAmbiguous:
			stats.Ambiguous++
		default:
			stats.Unmatched++
		}

		scores = append(scores, res.Score)
		sum += res.Score

		bucket := int(res.Score * histogramBuckets)
		if bucket >= histogramBuckets {
			bucket = histogramBuckets - 1
		}
		if bucket < 0 {
			bucket = 0
		}
		stats.Histogram[bucket]++
	}

	sort.Float64s(scores)
	stats.MinScore = scores[0]
	stats.MaxScore = scores[len(scores)-1]
	stats.MeanScore = sum / float64(len(scores))
	stats.MedianScore = median(scores)

	return results, stats
}

// median computes the median of an already-sorted score slice
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
