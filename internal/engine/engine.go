// Package engine runs the scoring pipeline: fetch the feed, map feed
// branches onto the registry, derive per-branch metrics, and publish the
// updated registry.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/branch-pulse/internal/match"
	"github.com/branch-pulse/internal/model"
	"github.com/branch-pulse/internal/score"
	"github.com/branch-pulse/internal/service"
)

// Engine orchestrates one or more scoring cycles.
type Engine struct {
	feed     service.FeedSource
	registry service.RegistryStore
	store    service.Storage
	matcher  *match.Matcher
	calc     *score.Calculator
	logger   *slog.Logger

	// Cached mapping, rebuilt when either branch-name set changes.
	lastFeedSet     string
	lastRegistrySet string
	lastMatch       match.Result
}

// Option configures an Engine.
type Option func(*Engine)

// WithStorage enables local persistence: imported transactions and a
// metrics-history snapshot per cycle.
func WithStorage(store service.Storage) Option {
	return func(e *Engine) { e.store = store }
}

// New creates an Engine.
func New(feed service.FeedSource, registry service.RegistryStore, matcher *match.Matcher, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		feed:     feed,
		registry: registry,
		matcher:  matcher,
		calc:     score.NewCalculator(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunCycle executes one full scoring cycle and returns its stats.
func (e *Engine) RunCycle(ctx context.Context) (service.CycleStats, error) {
	stats := service.CycleStats{StartedAt: time.Now()}

	txns, err := e.feed.FetchTransactions(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch feed: %w", err)
	}
	stats.Transactions = len(txns)

	branches, err := e.registry.FetchBranches(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch registry: %w", err)
	}

	byFeedName := groupByBranch(txns)
	feedNames := sortedKeys(byFeedName)
	registryNames := make([]string, len(branches))
	for i, b := range branches {
		registryNames[i] = b.Name
	}

	result := e.mappingFor(registryNames, feedNames)
	stats.MappedBranches = len(result.Mapping)
	stats.UnmatchedFeed = len(result.UnmatchedFeed)
	stats.UnmatchedRegistry = len(result.UnmatchedRegistry)

	// Pool feed transactions under their mapped registry branch.
	byRegistryName := make(map[string][]model.Transaction, len(result.Mapping))
	for feedName, regName := range result.Mapping {
		byRegistryName[regName] = append(byRegistryName[regName], byFeedName[feedName]...)
	}

	scoredWithData := 0
	bhsSum := 0.0
	for i := range branches {
		branches[i].Metrics = e.calc.Metrics(branches[i].Name, byRegistryName[branches[i].Name])
		if branches[i].Metrics.HasData() {
			scoredWithData++
			bhsSum += branches[i].Metrics.BHS
		}
	}

	// Feed branches with no registry row are appended with placeholder
	// geocoding so their metrics are not lost.
	for _, feedName := range result.UnmatchedFeed {
		branch := model.NewBranch(feedName)
		branch.Metrics = e.calc.Metrics(feedName, byFeedName[feedName])
		branches = append(branches, branch)
		if branch.Metrics.HasData() {
			scoredWithData++
			bhsSum += branch.Metrics.BHS
		}
		e.logger.Info("appending new registry branch", "branch", feedName)
	}

	if err := e.registry.PublishMetrics(ctx, branches); err != nil {
		return stats, fmt.Errorf("failed to publish registry: %w", err)
	}
	stats.Published = len(branches)
	if scoredWithData > 0 {
		stats.AverageBHS = bhsSum / float64(scoredWithData)
	}

	if e.store != nil {
		if saved, err := e.store.SaveTransactions(ctx, txns); err != nil {
			e.logger.Warn("failed to cache feed transactions", "error", err)
		} else {
			e.logger.Debug("cached feed transactions", "new", saved)
		}
		if err := e.store.SaveMetricsSnapshot(ctx, stats.StartedAt, branches); err != nil {
			e.logger.Warn("failed to record metrics history", "error", err)
		}
	}

	stats.Duration = time.Since(stats.StartedAt)
	e.logger.Info("cycle complete",
		"transactions", stats.Transactions,
		"mapped", stats.MappedBranches,
		"unmatched_feed", stats.UnmatchedFeed,
		"unmatched_registry", stats.UnmatchedRegistry,
		"published", stats.Published,
		"avg_bhs", fmt.Sprintf("%.2f", stats.AverageBHS),
		"duration", stats.Duration)

	return stats, nil
}

// Run executes cycles on a fixed interval until the context is canceled.
// A failed cycle is logged and skipped; the loop keeps going. Cycles do
// not overlap: the interval starts after the previous cycle finishes.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	e.logger.Info("starting monitor loop", "interval", interval)

	for {
		if _, err := e.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Error("cycle failed, will retry next interval", "error", err)
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			e.logger.Info("monitor loop stopped")
			return ctx.Err()
		}
	}
}

// mappingFor returns the cached mapping when neither branch-name set has
// changed since the previous cycle, rebuilding it otherwise.
func (e *Engine) mappingFor(registryNames, feedNames []string) match.Result {
	regKey := setKey(registryNames)
	feedKey := setKey(feedNames)
	if regKey == e.lastRegistrySet && feedKey == e.lastFeedSet && e.lastMatch.Mapping != nil {
		return e.lastMatch
	}

	result := e.matcher.Match(registryNames, feedNames)
	e.lastRegistrySet = regKey
	e.lastFeedSet = feedKey
	e.lastMatch = result
	return result
}

func setKey(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

func groupByBranch(txns []model.Transaction) map[string][]model.Transaction {
	grouped := make(map[string][]model.Transaction)
	for _, txn := range txns {
		grouped[txn.BranchName] = append(grouped[txn.BranchName], txn)
	}
	return grouped
}

func sortedKeys(m map[string][]model.Transaction) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
