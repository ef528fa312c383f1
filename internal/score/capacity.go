package score

import (
	"sort"
	"time"

	"github.com/branch-pulse/internal/model"
)

// Daily customer capacity standards.
const (
	normalDayCapacity = 150.0
	peakDayCapacity   = 270.0
)

// PeakCapacity grades how the branch absorbs daily volume. Each calendar
// date gets a score from a fixed volume-band by time-band decision table
// against the day's capacity standard (higher on peak days), minus a
// waiting-time penalty; the branch score is the mean of the daily scores
// with a deduction for high day-to-day variability.
func PeakCapacity(txns []model.Transaction) float64 {
	days := groupByDay(txns)
	if len(days) == 0 {
		return 0
	}

	// Sorted for deterministic iteration; the mean is order-independent
	// but the logs and tests are not.
	dates := make([]time.Time, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	dailyScores := make([]float64, 0, len(dates))
	for _, date := range dates {
		dailyScores = append(dailyScores, dailyCapacityScore(date, days[date]))
	}

	m, _ := meanAndSpreadPenalty(dailyScores)
	return clamp(m)
}

func groupByDay(txns []model.Transaction) map[time.Time][]model.Transaction {
	days := make(map[time.Time][]model.Transaction)
	for _, t := range txns {
		if !t.HasDate() {
			continue
		}
		day := t.Day()
		days[day] = append(days[day], t)
	}
	return days
}

// dailyCapacityScore is the fixed decision table: four volume bands
// relative to the day's standard, each split by average total transaction
// time, floored at 0 after the waiting penalty.
func dailyCapacityScore(date time.Time, txns []model.Transaction) float64 {
	standard := normalDayCapacity
	if model.IsPeakDay(date) {
		standard = peakDayCapacity
	}

	volume := float64(len(txns))
	totals := make([]float64, len(txns))
	waits := make([]float64, len(txns))
	for i, t := range txns {
		totals[i] = t.TotalTime
		waits[i] = t.WaitingTime
	}
	avgTotal := mean(totals)
	avgWaiting := mean(waits)

	var score float64
	switch {
	case volume <= standard*0.6:
		switch {
		case avgTotal <= 8:
			score = 90
		case avgTotal <= 12:
			score = 80
		default:
			score = 60
		}
	case volume <= standard:
		switch {
		case avgTotal <= 10:
			score = 85
		case avgTotal <= 15:
			score = 75
		case avgTotal <= 20:
			score = 65
		default:
			score = 45
		}
	case volume <= standard*1.2:
		switch {
		case avgTotal <= 12:
			score = 75
		case avgTotal <= 18:
			score = 60
		case avgTotal <= 25:
			score = 45
		default:
			score = 30
		}
	default:
		over := volume / standard
		switch {
		case avgTotal <= 15:
			score = maxf(50, 70-(over-1.2)*20)
		case avgTotal <= 25:
			score = maxf(30, 50-(over-1.2)*30)
		default:
			score = maxf(10, 30-(over-1.2)*40)
		}
	}

	if avgWaiting > 10 {
		penalty := (avgWaiting - 10) * 2
		if penalty > 20 {
			penalty = 20
		}
		score -= penalty
	}

	if score < 0 {
		return 0
	}
	return score
}

// meanAndSpreadPenalty averages the daily scores and deducts up to 10
// points when their population standard deviation exceeds 15.
func meanAndSpreadPenalty(dailyScores []float64) (float64, float64) {
	base := mean(dailyScores)

	var penalty float64
	if len(dailyScores) > 1 {
		if sd := popStdDev(dailyScores); sd > 15 {
			penalty = sd - 15
			if penalty > 10 {
				penalty = 10
			}
			base -= penalty
		}
	}
	return base, penalty
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
