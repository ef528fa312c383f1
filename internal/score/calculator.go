package score

import "github.com/branch-pulse/internal/model"

// Aggregate computes the descriptive statistics for one branch's
// transaction set. Coerced-missing cells are excluded per field; an empty
// set yields zeroed metrics with TransactionCount 0, which callers must
// read as "no data this cycle" rather than a score of zero.
func Aggregate(txns []model.Transaction) model.BranchMetrics {
	m := model.BranchMetrics{TransactionCount: len(txns)}
	if len(txns) == 0 {
		return m
	}

	waiting := make([]float64, len(txns))
	processing := make([]float64, len(txns))
	total := make([]float64, len(txns))
	sentiment := make([]float64, len(txns))
	for i, t := range txns {
		waiting[i] = t.WaitingTime
		processing[i] = t.ProcessingTime
		total[i] = t.TotalTime
		sentiment[i] = t.SentimentScore
	}

	m.AvgWaitingTime = round2(mean(waiting))
	m.AvgProcessingTime = round2(mean(processing))
	m.AvgTransactionTime = round2(mean(total))
	m.AvgSentimentScore = round2(mean(sentiment))
	return m
}

// Calculator derives the full metrics row for a branch. It owns the
// financial simulator so repeated cycles within a run reuse the same
// simulated financial scores.
type Calculator struct {
	financial *FinancialSimulator
}

// NewCalculator creates a Calculator with a fresh financial cache.
func NewCalculator() *Calculator {
	return &Calculator{financial: NewFinancialSimulator()}
}

// Metrics aggregates and scores one branch. Sub-scores are independent
// of each other; Financial Performance depends only on the branch name.
// A branch with no transactions reports all scores as exactly 0.
func (c *Calculator) Metrics(branchName string, txns []model.Transaction) model.BranchMetrics {
	m := Aggregate(txns)
	if !m.HasData() {
		return m
	}

	m.ServiceEfficiency = ServiceEfficiency(txns)
	m.CustomerExperience = CustomerExperience(txns)
	m.PeakCapacity = PeakCapacity(txns)
	m.FinancialPerformance = c.financial.Score(branchName)
	m.BHS = CombineBHS(m.ServiceEfficiency, m.CustomerExperience, m.PeakCapacity, m.FinancialPerformance)
	return m
}
