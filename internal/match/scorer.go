package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer computes a bounded [0,1] similarity between two canonical keys.
type Scorer interface {
	Score(a, b string) float64
}

// TokenSetScorer is the default similarity: Jaccard overlap of the
// whitespace token sets plus a 0.1 bonus per ordered pair of distinct
// tokens where one contains the other. The bonus rewards partial-token
// containment ("makati" vs "makati city") beyond plain Jaccard.
type TokenSetScorer struct{}

// Score is symmetric and returns 0 when either key has no tokens.
func (TokenSetScorer) Score(a, b string) float64 {
	w1 := tokenSet(a)
	w2 := tokenSet(b)
	if len(w1) == 0 || len(w2) == 0 {
		return 0
	}

	intersection := 0
	for w := range w1 {
		if _, ok := w2[w]; ok {
			intersection++
		}
	}
	union := len(w1) + len(w2) - intersection
	score := float64(intersection) / float64(union)

	pairs := 0
	for x := range w1 {
		for y := range w2 {
			if x == y {
				continue
			}
			if strings.Contains(y, x) || strings.Contains(x, y) {
				pairs++
			}
		}
	}
	score += 0.1 * float64(pairs)

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// EditDistanceScorer is an opt-in alternative strategy based on
// normalized Levenshtein distance over the whole key. It is not a drop-in
// replacement for TokenSetScorer: on ambiguous inputs it produces a
// different mapping, so callers must choose it explicitly.
type EditDistanceScorer struct{}

// Score returns 1 - distance/maxLen, clamped at 0.
func (EditDistanceScorer) Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	d := levenshtein.ComputeDistance(a, b)
	score := 1.0 - float64(d)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

func tokenSet(key string) map[string]struct{} {
	fields := strings.Fields(key)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Similarity scores two canonical keys with the default TokenSetScorer.
func Similarity(a, b string) float64 {
	return TokenSetScorer{}.Score(a, b)
}
