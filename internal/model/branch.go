package model

import "time"

// Branch is one row of the branch registry. The static columns (city,
// address, coordinates) are preserved verbatim across cycles; the metrics
// columns are rewritten every cycle.
type Branch struct {
	City      string
	Name      string
	Address   string
	Latitude  string // kept as sheet text to avoid lossy round-trips
	Longitude string
	Metrics   BranchMetrics
}

// Placeholder geocoding applied to branches appended to the registry
// before a real address is known.
const (
	PlaceholderCity      = "Manila"
	PlaceholderLatitude  = "14.5995"
	PlaceholderLongitude = "120.9842"
)

// NewBranch builds a registry row for a branch seen in the feed but not
// yet present in the registry.
func NewBranch(name string) Branch {
	return Branch{
		City:      PlaceholderCity,
		Name:      name,
		Address:   name + " Address",
		Latitude:  PlaceholderLatitude,
		Longitude: PlaceholderLongitude,
	}
}

// BranchMetrics holds the derived per-branch values published each cycle.
// A TransactionCount of zero means "no data this cycle", not a score of
// zero; all other fields are zero in that case.
type BranchMetrics struct {
	AvgWaitingTime       float64
	AvgProcessingTime    float64
	AvgTransactionTime   float64
	AvgSentimentScore    float64
	ServiceEfficiency    float64
	CustomerExperience   float64
	PeakCapacity         float64
	FinancialPerformance float64
	BHS                  float64
	TransactionCount     int
}

// HasData reports whether any transactions backed these metrics.
func (m BranchMetrics) HasData() bool { return m.TransactionCount > 0 }

// MetricsSnapshot is one historical metrics row, recorded per branch per
// processing cycle.
type MetricsSnapshot struct {
	RecordedAt time.Time
	BranchName string
	Metrics    BranchMetrics
}
