package score

import "github.com/branch-pulse/internal/model"

// Branch-wide service standards, in minutes.
const (
	waitingMax       = 4.0
	waitingExcellent = 5.0
	waitingPoor      = 6.0

	processingMax       = 5.0
	processingExcellent = 5.0
	processingPoor      = 9.0

	totalTimeMax       = 9.0
	totalTimeExcellent = 10.0
	totalTimePoor      = 18.0

	complexMixThreshold  = 0.3
	complexSlowThreshold = 20.0
)

// ServiceEfficiency scores how quickly the branch moves customers:
// weighted waiting/processing/total-time performance minus a penalty when
// complex transactions (loan, account service, customer service) dominate
// the mix and run slow.
func ServiceEfficiency(txns []model.Transaction) float64 {
	if len(txns) == 0 {
		return 0
	}

	waiting := make([]float64, len(txns))
	processing := make([]float64, len(txns))
	total := make([]float64, len(txns))
	for i, t := range txns {
		waiting[i] = t.WaitingTime
		processing[i] = t.ProcessingTime
		total[i] = t.TotalTime
	}

	waitingScore := perfScore(mean(waiting), waitingMax, waitingExcellent, waitingPoor)
	processingScore := perfScore(mean(processing), processingMax, processingExcellent, processingPoor)
	totalScore := perfScore(mean(total), totalTimeMax, totalTimeExcellent, totalTimePoor)

	score := waitingScore*0.35 + processingScore*0.35 + totalScore*0.30
	score -= complexityPenalty(txns)

	return clamp(score)
}

// complexityPenalty applies when more than 30% of the mix is complex AND
// those transactions average over 20 minutes end to end.
func complexityPenalty(txns []model.Transaction) float64 {
	var complexTotals []float64
	for _, t := range txns {
		if t.Type.IsComplex() {
			complexTotals = append(complexTotals, t.TotalTime)
		}
	}

	ratio := float64(len(complexTotals)) / float64(len(txns))
	if ratio <= complexMixThreshold {
		return 0
	}
	avg := mean(complexTotals)
	if avg <= complexSlowThreshold {
		return 0
	}

	penalty := (avg - complexSlowThreshold) * 2
	if penalty > 20 {
		penalty = 20
	}
	return penalty
}
