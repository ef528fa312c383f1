// Package generator produces synthetic branch transaction feeds for demos
// and load testing, with realistic type mixes, peak-day surges, and
// sentiment tied to service times.
package generator

import (
	"fmt"

	"github.com/branch-pulse/internal/model"
)

// Quality controls whether a record draws from the acceptable or the
// degraded end of the service-time ranges.
type Quality int

// Record quality levels.
const (
	QualityGood Quality = iota
	QualityBad
)

func (q Quality) String() string {
	if q == QualityBad {
		return "bad"
	}
	return "good"
}

// Config holds the generation parameters.
type Config struct {
	Branches          []string
	ReviewSamplesPath string
	GoodPercentage    int     // share of records drawn at QualityGood
	Dispersion        float64 // multiplier on degraded service times
	Seed              int64   // 0 means time-based
	BulkShare         float64 // share of bulk customers
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GoodPercentage: 70,
		Dispersion:     1.0,
		BulkShare:      0.20,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Branches) == 0 {
		return fmt.Errorf("at least one branch is required")
	}
	for _, name := range c.Branches {
		if name == "" {
			return fmt.Errorf("branch names must not be empty")
		}
	}
	if c.GoodPercentage < 0 || c.GoodPercentage > 100 {
		return fmt.Errorf("good percentage must be between 0 and 100")
	}
	if c.Dispersion <= 0 {
		return fmt.Errorf("dispersion must be positive")
	}
	if c.BulkShare < 0 || c.BulkShare > 1 {
		return fmt.Errorf("bulk share must be between 0 and 1")
	}
	return nil
}

// typeProfile holds the frequency weight and the service-time ranges for
// one transaction type, in minutes.
type typeProfile struct {
	kind       model.TransactionType
	weight     int
	waiting    timeRanges
	processing timeRanges
}

type timeRanges struct {
	normal [2]int
	peak   [2]int
}

// typeProfiles is the observed frequency and service-time mix across
// branch operations. Weights are relative, higher is more frequent.
var typeProfiles = []typeProfile{
	{model.TypeWithdrawal, 30,
		timeRanges{normal: [2]int{2, 5}, peak: [2]int{8, 15}},
		timeRanges{normal: [2]int{2, 4}, peak: [2]int{3, 6}}},
	{model.TypeDeposit, 25,
		timeRanges{normal: [2]int{3, 7}, peak: [2]int{10, 20}},
		timeRanges{normal: [2]int{3, 6}, peak: [2]int{5, 8}}},
	{model.TypeEncashment, 15,
		timeRanges{normal: [2]int{4, 8}, peak: [2]int{12, 25}},
		timeRanges{normal: [2]int{4, 7}, peak: [2]int{6, 10}}},
	{model.TypeTransfer, 12,
		timeRanges{normal: [2]int{3, 6}, peak: [2]int{8, 15}},
		timeRanges{normal: [2]int{3, 5}, peak: [2]int{4, 7}}},
	{model.TypeCustomerService, 8,
		timeRanges{normal: [2]int{5, 12}, peak: [2]int{15, 25}},
		timeRanges{normal: [2]int{7, 15}, peak: [2]int{10, 20}}},
	{model.TypeAccountService, 6,
		timeRanges{normal: [2]int{8, 15}, peak: [2]int{15, 30}},
		timeRanges{normal: [2]int{10, 20}, peak: [2]int{15, 25}}},
	{model.TypeLoan, 4,
		timeRanges{normal: [2]int{10, 20}, peak: [2]int{20, 40}},
		timeRanges{normal: [2]int{15, 30}, peak: [2]int{20, 45}}},
}

var totalTypeWeight = func() int {
	n := 0
	for _, p := range typeProfiles {
		n += p.weight
	}
	return n
}()
