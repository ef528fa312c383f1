package score

import "github.com/branch-pulse/internal/model"

// CustomerExperience maps the branch's mean sentiment onto a banded base
// score, then adjusts for consistency (sentiment spread) and for quality
// held or lost at volume.
func CustomerExperience(txns []model.Transaction) float64 {
	if len(txns) == 0 {
		return 0
	}

	sentiments := make([]float64, len(txns))
	for i, t := range txns {
		sentiments[i] = t.SentimentScore
	}
	avg := mean(sentiments)

	var score float64
	switch {
	case avg >= 4.5:
		score = 95
	case avg >= 4.0:
		score = 85
	case avg >= 3.5:
		score = 75
	case avg >= 3.0:
		score = 60
	case avg >= 2.5:
		score = 40
	case avg >= 2.0:
		score = 25
	default:
		score = 10
	}

	// Consistency: a tight sentiment spread earns a small bonus, a wide
	// one costs more than the bonus is worth.
	sd := sampleStdDev(sentiments)
	if sd < 0.5 {
		score += 5
	} else if sd > 1.0 {
		score -= 10
	}

	// Holding quality at volume is hard; losing it at volume is worse.
	count := len(txns)
	if count > 400 && avg >= 3.5 {
		score += 5
	} else if count > 200 && avg < 3.0 {
		score -= 5
	}

	return clamp(score)
}
