package algorithms

import "strings"

// SimilarityMetrics provides string similarity measures for identity fields.
// All measures return values in [0, 1]: 1.0 for an exact match, 0.0 for
// strings that share nothing.
type SimilarityMetrics struct{}

// NewSimilarityMetrics creates a new similarity metrics instance
func NewSimilarityMetrics() *SimilarityMetrics {
	return &SimilarityMetrics{}
}

// DamerauLevenshteinDistance computes the Damerau-Levenshtein edit distance.
// Adjacent transpositions count as a single edit, which matters for OCR
// output where swapped letter pairs are a common transcription error.
func (sm *SimilarityMetrics) DamerauLevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)

			if i > 1 && j > 1 && r1[i-1] == r2[j-2] && r1[i-2] == r2[j-1] {
				matrix[i][j] = min2(
					matrix[i][j],
					matrix[i-2][j-2]+1, // transposition
				)
			}
		}
	}

	return matrix[len1][len2]
}

// DamerauLevenshteinSimilarity computes a normalized similarity based on the
// Damerau-Levenshtein distance
func (sm *SimilarityMetrics) DamerauLevenshteinSimilarity(s1, s2 string) float64 {
	distance := sm.DamerauLevenshteinDistance(s1, s2)
	maxLen := len([]rune(s1))
	if len([]rune(s2)) > maxLen {
		maxLen = len([]rune(s2))
	}

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance computes the standard Levenshtein edit distance
func (sm *SimilarityMetrics) LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	// Single-column variant to avoid allocating the full matrix
	column := make([]int, len1+1)
	for i := 1; i <= len1; i++ {
		column[i] = i
	}

	for x := 1; x <= len2; x++ {
		column[0] = x
		lastDiag := x - 1
		for y := 1; y <= len1; y++ {
			oldDiag := column[y]
			cost := 0
			if r1[y-1] != r2[x-1] {
				cost = 1
			}
			column[y] = min3(column[y]+1, column[y-1]+1, lastDiag+cost)
			lastDiag = oldDiag
		}
	}

	return column[len1]
}

// LevenshteinSimilarity computes a normalized similarity based on the
// Levenshtein distance
func (sm *SimilarityMetrics) LevenshteinSimilarity(s1, s2 string) float64 {
	distance := sm.LevenshteinDistance(s1, s2)
	maxLen := len([]rune(s1))
	if len([]rune(s2)) > maxLen {
		maxLen = len([]rune(s2))
	}

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// BigramSimilarity computes a Dice coefficient over padded character
// bigrams. Works better than edit distance for very short tokens such as
// street types and direction suffixes.
func (sm *SimilarityMetrics) BigramSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	grams1 := bigrams(s1)
	grams2 := bigrams(s2)
	if len(grams1) == 0 || len(grams2) == 0 {
		return 0.0
	}

	counts := make(map[string]int, len(grams1))
	for _, g := range grams1 {
		counts[g]++
	}

	overlap := 0
	for _, g := range grams2 {
		if counts[g] > 0 {
			counts[g]--
			overlap++
		}
	}

	return 2.0 * float64(overlap) / float64(len(grams1)+len(grams2))
}

// bigrams generates padded character bigrams so that single-character
// differences at word edges still overlap
func bigrams(text string) []string {
	padded := "_" + strings.TrimSpace(text) + "_"
	runes := []rune(padded)
	if len(runes) < 2 {
		return nil
	}

	grams := make([]string, 0, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		gram := string(runes[i : i+2])
		if strings.Trim(gram, "_") != "" {
			grams = append(grams, gram)
		}
	}
	return grams
}

// min2 returns the minimum of two numbers
func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// min3 returns the minimum of three numbers
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
