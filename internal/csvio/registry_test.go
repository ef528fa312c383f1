package csvio

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/branch-pulse/internal/model"
)

func TestRegistryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.csv")
	reg := NewRegistry(path, discardLogger())
	ctx := context.Background()

	branches := []model.Branch{
		{
			City: "Makati City", Name: "Ayala Triangle", Address: "Ayala Ave",
			Latitude: "14.55", Longitude: "121.02",
			Metrics: model.BranchMetrics{
				AvgWaitingTime:     3.5,
				AvgProcessingTime:  4.25,
				AvgTransactionTime: 7.75,
				AvgSentimentScore:  4.1,
				BHS:                83.26,
				TransactionCount:   42,
			},
		},
		{City: "Quezon City", Name: "Katipunan", Address: "Katipunan Ave"},
	}

	if err := reg.PublishMetrics(ctx, branches); err != nil {
		t.Fatalf("PublishMetrics() error = %v", err)
	}

	got, err := reg.FetchBranches(ctx)
	if err != nil {
		t.Fatalf("FetchBranches() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d branches, want 2", len(got))
	}

	// Row order and static columns preserved.
	if got[0].Name != "Ayala Triangle" || got[1].Name != "Katipunan" {
		t.Errorf("order not preserved: %s, %s", got[0].Name, got[1].Name)
	}
	if got[0].Metrics.BHS != 83.26 || got[0].Metrics.TransactionCount != 42 {
		t.Errorf("metrics did not round-trip: %+v", got[0].Metrics)
	}
	if got[1].Metrics.TransactionCount != 0 {
		t.Errorf("no-data branch count = %d, want 0", got[1].Metrics.TransactionCount)
	}
}

func TestRegistryMissingFile(t *testing.T) {
	reg := NewRegistry(filepath.Join(t.TempDir(), "nope.csv"), discardLogger())
	if _, err := reg.FetchBranches(context.Background()); err == nil {
		t.Fatal("expected error for missing registry file")
	}
}
