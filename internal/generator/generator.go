package generator

import (
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/branch-pulse/internal/model"
)

// Volume baselines per branch per day before per-day variation.
const (
	baseDailyVolume = 190
	peakDailyVolume = 310
	minDailyVolume  = 90
)

// Generator produces synthetic transaction feeds.
type Generator struct {
	rng     *rand.Rand
	logger  *slog.Logger
	samples map[string][]string
	config  Config
}

// New creates a generator. Review samples are loaded when the config names
// a samples file; otherwise review text stays empty.
func New(config Config, logger *slog.Logger) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Generator{
		config:  config,
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- synthetic data, no security use
		logger:  logger,
		samples: map[string][]string{},
	}

	if config.ReviewSamplesPath != "" {
		samples, err := loadReviewSamples(config.ReviewSamplesPath)
		if err != nil {
			return nil, err
		}
		g.samples = samples
		logger.Info("loaded review samples",
			"positive", len(samples["positive"]),
			"neutral", len(samples["neutral"]),
			"negative", len(samples["negative"]))
	}

	return g, nil
}

// DailyVolume returns the expected customer volume for a branch on a date.
// It is seeded from the branch and date so repeated runs agree, with peak
// days drawing from a higher baseline.
func DailyVolume(branch string, date time.Time) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(branch + date.Format("2006-01-02")))
	rng := rand.New(rand.NewSource(int64(h.Sum64()))) // #nosec G404

	var volume int
	if model.IsPeakDay(date) {
		volume = int(float64(peakDailyVolume) * (0.85 + rng.Float64()*0.25))
	} else {
		volume = int(float64(baseDailyVolume) * (0.70 + rng.Float64()*0.45))
	}
	if volume < minDailyVolume {
		volume = minDailyVolume
	}
	return volume
}

// GenerateDay generates one day of transactions across all configured
// branches, interleaved so the feed is not grouped by branch.
func (g *Generator) GenerateDay(date time.Time) []model.Transaction {
	var all []model.Transaction
	for _, branch := range g.config.Branches {
		all = append(all, g.generateBranchDay(branch, date)...)
	}
	g.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all
}

// GenerateRange generates transactions for consecutive days starting at
// start, with a progress bar for long runs.
func (g *Generator) GenerateRange(start time.Time, days int) []model.Transaction {
	bar := progressbar.NewOptions(days,
		progressbar.OptionSetDescription("generating"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish())

	var all []model.Transaction
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		all = append(all, g.GenerateDay(date)...)
		_ = bar.Add(1)
	}

	g.logger.Info("generated transactions",
		"days", days,
		"branches", len(g.config.Branches),
		"count", len(all))
	return all
}

func (g *Generator) generateBranchDay(branch string, date time.Time) []model.Transaction {
	isPeak := model.IsPeakDay(date)
	volume := DailyVolume(branch, date)

	txns := make([]model.Transaction, 0, volume)
	normalCounter := 1
	bulkCounter := 1

	for i := 0; i < volume; i++ {
		isBulk := g.rng.Float64() < g.config.BulkShare
		var customerID, txnID string
		if isBulk {
			customerID = fmt.Sprintf("B%03d", bulkCounter)
			txnID = transactionID(branch, date, true, bulkCounter)
			bulkCounter++
		} else {
			customerID = fmt.Sprintf("N%03d", normalCounter)
			txnID = transactionID(branch, date, false, normalCounter)
			normalCounter++
		}

		profile := g.pickType()
		quality := g.pickQuality()
		waiting := g.drawMinutes(profile.waiting, isPeak, quality)
		processing := g.drawMinutes(profile.processing, isPeak, quality)
		total := waiting + processing

		label, score, review := g.sentimentFor(total)

		txn := model.Transaction{
			Date:           date,
			ID:             txnID,
			CustomerID:     customerID,
			BranchName:     branch,
			Type:           profile.kind,
			Sentiment:      label,
			ReviewText:     review,
			WaitingTime:    waiting,
			ProcessingTime: processing,
			TotalTime:      total,
			SentimentScore: score,
		}
		txn.Hash = txn.GenerateHash()
		txns = append(txns, txn)
	}

	return txns
}

func (g *Generator) pickType() typeProfile {
	n := g.rng.Intn(totalTypeWeight)
	for _, p := range typeProfiles {
		if n < p.weight {
			return p
		}
		n -= p.weight
	}
	return typeProfiles[0]
}

func (g *Generator) pickQuality() Quality {
	if g.rng.Intn(100) < g.config.GoodPercentage {
		return QualityGood
	}
	return QualityBad
}

// drawMinutes draws a service time from the type's range for the day kind.
// Bad-quality records stretch toward and past the top of the range, scaled
// by the dispersion knob.
func (g *Generator) drawMinutes(ranges timeRanges, isPeak bool, quality Quality) float64 {
	r := ranges.normal
	if isPeak {
		r = ranges.peak
	}
	minutes := float64(r[0] + g.rng.Intn(r[1]-r[0]+1))
	if quality == QualityBad {
		minutes *= 1.0 + g.config.Dispersion*g.rng.Float64()
	}
	return float64(int(minutes))
}

// sentimentFor derives a sentiment from the total service time: fast visits
// skew positive, slow ones negative, with jitter so the bands overlap.
func (g *Generator) sentimentFor(totalTime float64) (label string, score float64, review string) {
	var base float64
	switch {
	case totalTime <= 10:
		base = 3.5 + g.rng.Float64()*1.5
	case totalTime <= 20:
		base = 2.5 + g.rng.Float64()*1.5
	default:
		base = 1.0 + g.rng.Float64()*2.0
	}

	score = base + (g.rng.Float64() - 0.5)
	if score < 1.0 {
		score = 1.0
	}
	if score > 5.0 {
		score = 5.0
	}
	score = float64(int(score*100)) / 100

	switch {
	case score < 2:
		label = "negative"
	case score < 3:
		label = "neutral"
	default:
		label = "positive"
	}

	if samples := g.samples[label]; len(samples) > 0 {
		review = samples[g.rng.Intn(len(samples))]
	}
	return label, score, review
}

// transactionID builds IDs like AYA0310B001: branch initials, month-day,
// bulk/normal marker, per-day counter.
func transactionID(branch string, date time.Time, isBulk bool, counter int) string {
	initials := strings.ToUpper(strings.ReplaceAll(branch, " ", ""))
	if len(initials) > 3 {
		initials = initials[:3]
	}
	marker := "N"
	if isBulk {
		marker = "B"
	}
	return fmt.Sprintf("%s%s%s%03d", initials, date.Format("0102"), marker, counter)
}

// loadReviewSamples reads a samples CSV with sentiment and review_text
// columns, grouping rows by sentiment label.
func loadReviewSamples(path string) (map[string][]string, error) {
	file, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open review samples %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read review samples header: %w", err)
	}

	sentimentIdx, textIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "sentiment":
			sentimentIdx = i
		case "review_text":
			textIdx = i
		}
	}
	if sentimentIdx < 0 || textIdx < 0 {
		return nil, fmt.Errorf("review samples file %s missing sentiment or review_text column", path)
	}

	samples := map[string][]string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading review samples: %w", err)
		}
		if sentimentIdx >= len(record) || textIdx >= len(record) {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(record[sentimentIdx]))
		text := strings.TrimSpace(record[textIdx])
		if label == "" || text == "" {
			continue
		}
		samples[label] = append(samples[label], text)
	}

	return samples, nil
}
