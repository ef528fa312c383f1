package storage

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/branch-pulse/internal/common"
	"github.com/branch-pulse/internal/model"
	"github.com/branch-pulse/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return s
}

func testTxn(id, branch string, date time.Time, waiting, processing, total float64) model.Transaction {
	return model.Transaction{
		ID:             id,
		Date:           date,
		CustomerID:     "CUST-1",
		BranchName:     branch,
		Type:           model.TypeWithdrawal,
		Sentiment:      "positive",
		WaitingTime:    waiting,
		ProcessingTime: processing,
		TotalTime:      total,
		SentimentScore: 4.0,
	}
}

func TestMigrateIdempotent(t *testing.T) {
	s := newTestStorage(t)
	// A second run must be a no-op.
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestSaveTransactionsDeduplicates(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	batch := []model.Transaction{
		testTxn("TXN-1", "Makati", date, 3, 4, 7),
		testTxn("TXN-2", "Makati", date, 5, 6, 11),
	}
	saved, err := s.SaveTransactions(ctx, batch)
	if err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}
	if saved != 2 {
		t.Errorf("saved = %d, want 2", saved)
	}

	// Re-importing the same feed rows must not duplicate them.
	saved, err = s.SaveTransactions(ctx, batch)
	if err != nil {
		t.Fatalf("second SaveTransactions() error = %v", err)
	}
	if saved != 0 {
		t.Errorf("re-import saved = %d, want 0", saved)
	}

	got, err := s.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("stored count = %d, want 2", len(got))
	}
}

func TestGetTransactionsFilters(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	d1 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	if _, err := s.SaveTransactions(ctx, []model.Transaction{
		testTxn("TXN-1", "Makati", d1, 3, 4, 7),
		testTxn("TXN-2", "Quezon", d2, 5, 6, 11),
		testTxn("TXN-3", "Makati", d3, 2, 3, 5),
	}); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}

	tests := []struct {
		name    string
		filter  service.TransactionFilter
		wantIDs []string
	}{
		{"no filter", service.TransactionFilter{}, []string{"TXN-1", "TXN-2", "TXN-3"}},
		{"by branch", service.TransactionFilter{BranchName: "Makati"}, []string{"TXN-1", "TXN-3"}},
		{"start date", service.TransactionFilter{StartDate: &d2}, []string{"TXN-2", "TXN-3"}},
		{"end date", service.TransactionFilter{EndDate: &d2}, []string{"TXN-1", "TXN-2"}},
		{"limit", service.TransactionFilter{Limit: 1}, []string{"TXN-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.GetTransactions(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetTransactions() error = %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d transactions, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("transaction[%d].ID = %s, want %s", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestMissingCellsRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	txn := testTxn("TXN-NaN", "Makati", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), 3, 4, 7)
	txn.WaitingTime = model.Missing()
	txn.SentimentScore = model.Missing()
	if _, err := s.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}

	got, err := s.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1", len(got))
	}
	if !math.IsNaN(got[0].WaitingTime) {
		t.Errorf("WaitingTime = %v, want missing", got[0].WaitingTime)
	}
	if !math.IsNaN(got[0].SentimentScore) {
		t.Errorf("SentimentScore = %v, want missing", got[0].SentimentScore)
	}
	if got[0].ProcessingTime != 4 {
		t.Errorf("ProcessingTime = %v, want 4", got[0].ProcessingTime)
	}
}

func TestGetBranchNames(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := s.SaveTransactions(ctx, []model.Transaction{
		testTxn("TXN-1", "Quezon", d, 3, 4, 7),
		testTxn("TXN-2", "Makati", d, 5, 6, 11),
		testTxn("TXN-3", "Makati", d.Add(time.Hour), 2, 3, 5),
	}); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}

	names, err := s.GetBranchNames(ctx)
	if err != nil {
		t.Fatalf("GetBranchNames() error = %v", err)
	}
	want := []string{"Makati", "Quezon"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestMetricsHistoryRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	branch := model.Branch{
		Name: "Makati",
		Metrics: model.BranchMetrics{
			AvgWaitingTime:       3.5,
			AvgProcessingTime:    4.25,
			AvgTransactionTime:   7.75,
			AvgSentimentScore:    4.1,
			ServiceEfficiency:    92.5,
			CustomerExperience:   88,
			PeakCapacity:         75,
			FinancialPerformance: 61.3,
			BHS:                  83.26,
			TransactionCount:     42,
		},
	}
	empty := model.Branch{Name: "Quezon"}

	first := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	if err := s.SaveMetricsSnapshot(ctx, first, []model.Branch{branch, empty}); err != nil {
		t.Fatalf("SaveMetricsSnapshot() error = %v", err)
	}
	if err := s.SaveMetricsSnapshot(ctx, second, []model.Branch{branch}); err != nil {
		t.Fatalf("second SaveMetricsSnapshot() error = %v", err)
	}

	history, err := s.GetMetricsHistory(ctx, "Makati", 0)
	if err != nil {
		t.Fatalf("GetMetricsHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(history))
	}
	// Newest first.
	if !history[0].RecordedAt.Equal(second) {
		t.Errorf("history[0].RecordedAt = %v, want %v", history[0].RecordedAt, second)
	}
	if history[0].Metrics != branch.Metrics {
		t.Errorf("metrics = %+v, want %+v", history[0].Metrics, branch.Metrics)
	}

	limited, err := s.GetMetricsHistory(ctx, "Makati", 1)
	if err != nil {
		t.Fatalf("limited GetMetricsHistory() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited count = %d, want 1", len(limited))
	}

	quezon, err := s.GetMetricsHistory(ctx, "Quezon", 0)
	if err != nil {
		t.Fatalf("GetMetricsHistory(Quezon) error = %v", err)
	}
	if len(quezon) != 1 || quezon[0].Metrics.TransactionCount != 0 {
		t.Errorf("no-data snapshot = %+v, want one row with zero count", quezon)
	}
}

func TestMetricsHistoryUnknownBranch(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetMetricsHistory(context.Background(), "Nonexistent", 0)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
