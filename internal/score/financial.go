package score

import (
	"hash/fnv"
	"math/rand"
)

// FinancialSimulator produces the Financial Performance sub-score. Real
// revenue data is not available in this system, so the score is a
// deterministic pseudo-random draw seeded from the branch name: the same
// branch always gets the same score within a run, and the population
// follows a fixed mixture (5% in [20,45), 55% in [45,75), 20% in [75,85),
// 20% in [85,95]). This is a deliberate simulation, not a measurement.
//
// The cache is owned by the simulator instance and each key is written
// exactly once; the pipeline is single-threaded, so no locking is needed.
type FinancialSimulator struct {
	cache map[string]float64
}

// NewFinancialSimulator creates a simulator with an empty cache.
func NewFinancialSimulator() *FinancialSimulator {
	return &FinancialSimulator{cache: make(map[string]float64)}
}

// Score returns the branch's simulated financial score, drawing it on
// first use and serving the cached value afterwards.
func (s *FinancialSimulator) Score(branchName string) float64 {
	if v, ok := s.cache[branchName]; ok {
		return v
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(branchName))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	var score float64
	switch r := rng.Float64(); {
	case r < 0.05:
		score = 20 + rng.Float64()*25
	case r < 0.60:
		score = 45 + rng.Float64()*30
	case r < 0.80:
		score = 75 + rng.Float64()*10
	default:
		score = 85 + rng.Float64()*10
	}

	score = round1(score)
	s.cache[branchName] = score
	return score
}
