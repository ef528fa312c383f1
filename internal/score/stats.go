// Package score derives the Branch Health Score and its four sub-scores
// from a branch's transaction set. All sub-scores are pure functions of
// their inputs (Financial Performance of the branch name only) and land
// in [0,100].
package score

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/branch-pulse/internal/model"
)

// valid filters out coerced-missing values before statistics; a malformed
// cell must not drag a mean toward zero.
func valid(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !model.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// mean returns the arithmetic mean of the non-missing values, or 0 when
// none remain.
func mean(values []float64) float64 {
	vs := valid(values)
	if len(vs) == 0 {
		return 0
	}
	m, err := stats.Mean(vs)
	if err != nil {
		return 0
	}
	return m
}

// sampleStdDev matches the pandas default (ddof=1) used for the sentiment
// consistency adjustment. Returns 0 for fewer than two values.
func sampleStdDev(values []float64) float64 {
	vs := valid(values)
	if len(vs) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(vs)
	if err != nil {
		return 0
	}
	return sd
}

// popStdDev is the population standard deviation used for daily capacity
// score variability.
func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return 0
	}
	return sd
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

func round1(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return out
}
