package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branch-pulse/internal/match"
	"github.com/branch-pulse/internal/model"
	"github.com/branch-pulse/internal/service"
	"github.com/branch-pulse/internal/sheets"
	"github.com/branch-pulse/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func feedTxn(id, branch string, date time.Time, waiting, processing float64) model.Transaction {
	txn := testutil.Transaction(id, branch, date)
	txn.WaitingTime = waiting
	txn.ProcessingTime = processing
	txn.TotalTime = waiting + processing
	txn.Hash = txn.GenerateHash()
	return txn
}

func newTestEngine(feed *sheets.MockFeedSource, registry *sheets.MockRegistryStore, opts ...Option) *Engine {
	matcher := match.NewMatcher(match.DefaultThreshold, match.WithLogger(quietLogger()))
	return New(feed, registry, matcher, quietLogger(), opts...)
}

func TestRunCycle(t *testing.T) {
	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	feed := &sheets.MockFeedSource{Transactions: []model.Transaction{
		feedTxn("TXN-1", "BPI Ayala Triangle Branch", date, 3, 4),
		feedTxn("TXN-2", "BPI Ayala Triangle Branch", date, 2, 3),
		feedTxn("TXN-3", "Unknown Corner", date, 5, 5),
	}}
	registry := &sheets.MockRegistryStore{Branches: []model.Branch{
		{City: "Makati City", Name: "Ayala Triangle", Address: "Ayala Ave"},
		{City: "Quezon City", Name: "Katipunan", Address: "Katipunan Ave"},
	}}

	e := newTestEngine(feed, registry)
	stats, err := e.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Transactions)
	assert.Equal(t, 1, stats.MappedBranches)
	assert.Equal(t, 1, stats.UnmatchedFeed)
	assert.Equal(t, 1, stats.UnmatchedRegistry)
	assert.Equal(t, 3, stats.Published)

	published := registry.LastPublished()
	require.Len(t, published, 3)

	// Registry order preserved; the new branch appended last.
	assert.Equal(t, "Ayala Triangle", published[0].Name)
	assert.Equal(t, "Katipunan", published[1].Name)
	assert.Equal(t, "Unknown Corner", published[2].Name)

	// The fuzzy-matched branch pooled both feed transactions.
	assert.Equal(t, 2, published[0].Metrics.TransactionCount)
	assert.Equal(t, 2.5, published[0].Metrics.AvgWaitingTime)
	assert.Greater(t, published[0].Metrics.BHS, 0.0)
	assert.Equal(t, "Makati City", published[0].City)

	// The unmatched registry branch publishes a zeroed row.
	assert.Equal(t, 0, published[1].Metrics.TransactionCount)
	assert.Equal(t, 0.0, published[1].Metrics.BHS)

	// The appended branch carries placeholder geocoding and real metrics.
	assert.Equal(t, model.PlaceholderCity, published[2].City)
	assert.Equal(t, model.PlaceholderLatitude, published[2].Latitude)
	assert.Equal(t, 1, published[2].Metrics.TransactionCount)
	assert.Greater(t, published[2].Metrics.BHS, 0.0)

	assert.Greater(t, stats.AverageBHS, 0.0)
}

func TestRunCycleFeedError(t *testing.T) {
	feed := &sheets.MockFeedSource{FetchFunc: func(context.Context) ([]model.Transaction, error) {
		return nil, errors.New("quota exceeded")
	}}
	registry := &sheets.MockRegistryStore{}

	e := newTestEngine(feed, registry)
	_, err := e.RunCycle(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, registry.PublishCount, "must not publish after a failed fetch")
}

func TestRunCyclePublishError(t *testing.T) {
	feed := &sheets.MockFeedSource{}
	registry := &sheets.MockRegistryStore{
		Branches:    []model.Branch{{Name: "Ayala Triangle"}},
		PublishFunc: func(context.Context, []model.Branch) error { return errors.New("write failed") },
	}

	e := newTestEngine(feed, registry)
	_, err := e.RunCycle(context.Background())
	assert.ErrorContains(t, err, "publish")
}

func TestRunCycleWithStorage(t *testing.T) {
	store := testutil.SetupTestDB(t)

	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	feed := &sheets.MockFeedSource{Transactions: []model.Transaction{
		feedTxn("TXN-1", "Ayala Triangle", date, 3, 4),
	}}
	registry := &sheets.MockRegistryStore{Branches: []model.Branch{{Name: "Ayala Triangle"}}}

	e := newTestEngine(feed, registry, WithStorage(store))
	stats, err := e.RunCycle(context.Background())
	require.NoError(t, err)

	cached, err := store.GetTransactions(context.Background(), service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	history, err := store.GetMetricsHistory(context.Background(), "Ayala Triangle", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].RecordedAt.Equal(stats.StartedAt) ||
		history[0].RecordedAt.Sub(stats.StartedAt) < time.Second)
	assert.Equal(t, 1, history[0].Metrics.TransactionCount)
}

// countingScorer wraps the default scorer to observe mapping rebuilds.
type countingScorer struct {
	calls *atomic.Int64
	inner match.Scorer
}

func (s countingScorer) Score(a, b string) float64 {
	s.calls.Add(1)
	return s.inner.Score(a, b)
}

func TestMappingCachedAcrossCycles(t *testing.T) {
	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	// The names canonicalize differently, so mapping them exercises the
	// scorer rather than the exact-key short circuit.
	feed := &sheets.MockFeedSource{Transactions: []model.Transaction{
		feedTxn("TXN-1", "BPI Ayala Triangle North", date, 3, 4),
	}}
	registry := &sheets.MockRegistryStore{Branches: []model.Branch{{Name: "Ayala Triangle"}}}

	calls := &atomic.Int64{}
	matcher := match.NewMatcher(match.DefaultThreshold,
		match.WithLogger(quietLogger()),
		match.WithScorer(countingScorer{calls: calls, inner: match.TokenSetScorer{}}))
	e := New(feed, registry, matcher, quietLogger())

	_, err := e.RunCycle(context.Background())
	require.NoError(t, err)
	afterFirst := calls.Load()
	require.Greater(t, afterFirst, int64(0))

	// Same branch sets: the cached mapping is reused.
	_, err = e.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, afterFirst, calls.Load())

	// A new feed branch forces a rebuild.
	feed.Transactions = append(feed.Transactions, feedTxn("TXN-2", "Katipunan", date, 2, 2))
	_, err = e.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Greater(t, calls.Load(), afterFirst)
}

func TestRunStopsOnCancel(t *testing.T) {
	feed := &sheets.MockFeedSource{}
	registry := &sheets.MockRegistryStore{}
	e := newTestEngine(feed, registry)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, 10*time.Millisecond) }()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	assert.GreaterOrEqual(t, registry.PublishCount, 1, "expected at least one completed cycle")
}
