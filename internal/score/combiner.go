package score

// Published BHS weights. Service speed dominates, simulated financials
// barely move the needle.
const (
	weightServiceEfficiency    = 0.4
	weightCustomerExperience   = 0.3
	weightPeakCapacity         = 0.2
	weightFinancialPerformance = 0.1
)

// CombineBHS folds the four sub-scores into the published Branch Health
// Score, rounded to two decimals. Inputs are already in [0,100], so the
// weighted sum needs no clamping.
func CombineBHS(serviceEfficiency, customerExperience, peakCapacity, financialPerformance float64) float64 {
	bhs := serviceEfficiency*weightServiceEfficiency +
		customerExperience*weightCustomerExperience +
		peakCapacity*weightPeakCapacity +
		financialPerformance*weightFinancialPerformance
	return round2(bhs)
}
