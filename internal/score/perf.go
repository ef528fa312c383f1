package score

// perfScore grades an observed average against three thresholds with a
// piecewise-linear curve:
//
//	actual <= excellent          -> 100
//	actual <= maxRequirement     -> 100 down to 80, linear
//	actual <= poor               -> 70 down to 30, linear
//	otherwise                    -> max(5, 20 - min(15, (actual-poor)*2))
//
// The excellent boundary is inclusive. Note the deliberate discontinuity
// between the bands; the thresholds come from the published service
// standards and are applied as-is.
func perfScore(actual, maxRequirement, excellent, poor float64) float64 {
	switch {
	case actual <= excellent:
		return 100
	case actual <= maxRequirement:
		return 100 - (actual-excellent)/(maxRequirement-excellent)*20
	case actual <= poor:
		return 70 - (actual-maxRequirement)/(poor-maxRequirement)*40
	default:
		penalty := (actual - poor) * 2
		if penalty > 15 {
			penalty = 15
		}
		score := 20 - penalty
		if score < 5 {
			return 5
		}
		return score
	}
}
