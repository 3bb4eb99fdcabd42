package matching

import "sort"

// Decision the outcome of resolving one extracted signature
type Decision string

const (
	// DecisionMatched a single candidate cleared the threshold with a
	// sufficient margin over the runner-up
	DecisionMatched Decision = "matched"
	// DecisionUnmatched no candidate cleared the threshold (or blocking
	// produced no candidates at all)
	DecisionUnmatched Decision = "unmatched"
	// DecisionAmbiguous two candidates cleared the threshold within the
	// ambiguity epsilon of each other; surfaced for human adjudication,
	// never silently resolved
	DecisionAmbiguous Decision = "ambiguous"
)

// Weights per-field weights used to combine field similarities into one
// aggregate score. A zero or missing weight excludes the field.
type Weights map[string]float64

// DefaultWeights returns the default field weighting: name fields dominate,
// the abbreviation-prone street type and direction carry the least.
func DefaultWeights() Weights {
	return Weights{
		FieldFirstName:       0.25,
		FieldLastName:        0.30,
		FieldStreetNumber:    0.25,
		FieldStreetName:      0.15,
		FieldStreetType:      0.025,
		FieldStreetDirSuffix: 0.025,
	}
}

// MatchCandidate one scored voter-roll candidate for a signature.
// Ephemeral: produced and consumed within a single resolution, retained in
// the result only for ambiguous decisions.
type MatchCandidate struct {
	Voter       VoterRecord        `json:"voter"`
	FieldScores map[string]float64 `json:"field_scores"`
	Score       float64            `json:"score"`
}

// MatchResult the durable per-signature output of the pipeline
type MatchResult struct {
	Signature   ExtractedSignature `json:"signature"`
	Decision    Decision           `json:"decision"`
	VoterID     string             `json:"voter_id,omitempty"`
	Score       float64            `json:"score"`
	FieldScores map[string]float64 `json:"field_scores,omitempty"`
	// Candidates retained for review when the decision is Ambiguous
	Candidates []MatchCandidate `json:"candidates,omitempty"`
}

// Resolver combines field scores into a per-signature decision.
//
// Resolution is per-signature nearest neighbor: each signature is resolved
// independently against its candidate bucket, and the resolver deliberately
// does not enforce a global one-to-one assignment between signatures and
// voters. Two signatures may resolve to the same voter; detecting that is a
// review concern, not a matching concern.
type Resolver struct {
	scorer    *FieldScorer
	weights   Weights
	threshold float64
	epsilon   float64
}

// NewResolver creates a resolver with the given weights, acceptance
// threshold and ambiguity epsilon
func NewResolver(scorer *FieldScorer, weights Weights, threshold, epsilon float64) *Resolver {
	if len(weights) == 0 {
		weights = DefaultWeights()
	}
	return &Resolver{
		scorer:    scorer,
		weights:   weights,
		threshold: threshold,
		epsilon:   epsilon,
	}
}

// Resolve decides one signature against its candidate bucket. An empty
// bucket yields Unmatched with score 0 without invoking the scorer.
func (r *Resolver) Resolve(sig ExtractedSignature, norm NormalizedRecord, candidates []Candidate) MatchResult {
	if len(candidates) == 0 {
		return MatchResult{
			Signature: sig,
			Decision:  DecisionUnmatched,
		}
	}

	scored := make([]MatchCandidate, 0, len(candidates))
	for _, cand := range candidates {
		fieldScores := r.scorer.Score(norm, cand.Norm)
		scored = append(scored, MatchCandidate{
			Voter:       cand.Voter,
			FieldScores: fieldScores,
			Score:       r.aggregate(fieldScores),
		})
	}

	// Order by score descending, then by voter id: repeated runs over the
	// same snapshot must rank equal-scoring candidates identically
	// regardless of roll insertion order.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Voter.ID < scored[j].Voter.ID
	})

	best := scored[0]
	if best.Score < r.threshold {
		return MatchResult{
			Signature:   sig,
			Decision:    DecisionUnmatched,
			Score:       best.Score,
			FieldScores: best.FieldScores,
		}
	}

	if len(scored) > 1 && best.Score-scored[1].Score < r.epsilon {
		return MatchResult{
			Signature:   sig,
			Decision:    DecisionAmbiguous,
			Score:       best.Score,
			FieldScores: best.FieldScores,
			Candidates:  []MatchCandidate{scored[0], scored[1]},
		}
	}

	return MatchResult{
		Signature:   sig,
		Decision:    DecisionMatched,
		VoterID:     best.Voter.ID,
		Score:       best.Score,
		FieldScores: best.FieldScores,
	}
}

// aggregate folds a field score map into a weighted aggregate in [0, 1]
func (r *Resolver) aggregate(fieldScores map[string]float64) float64 {
	var sum, totalWeight float64
	for field, weight := range r.weights {
		if weight <= 0 {
			continue
		}
		sum += weight * fieldScores[field]
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.0
	}
	return sum / totalWeight
}
