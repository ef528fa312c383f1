// Package service defines the contracts between the pipeline and its
// collaborators: the transaction feed, the branch registry, and the
// local cache.
package service

import (
	"context"
	"time"

	"github.com/branch-pulse/internal/model"
)

// FeedSource provides the transaction records for one processing cycle.
// Implementations: the Google Sheets feed reader, the CSV gateway, and
// the SQLite cache.
type FeedSource interface {
	FetchTransactions(ctx context.Context) ([]model.Transaction, error)
}

// RegistryStore reads and rewrites the branch registry. FetchBranches
// returns rows in sheet order; PublishMetrics must preserve that order
// for existing rows and append new branches at the end.
type RegistryStore interface {
	FetchBranches(ctx context.Context) ([]model.Branch, error)
	PublishMetrics(ctx context.Context, branches []model.Branch) error
}

// TransactionSink receives generated transactions, either streamed or in
// bulk. Implementations: the sheets appender and the CSV writer.
type TransactionSink interface {
	AppendTransactions(ctx context.Context, txns []model.Transaction) error
}

// TransactionFilter narrows cache queries.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	BranchName string
	Limit      int
}

// Storage is the local persistence contract: imported feed snapshots and
// per-cycle metrics history.
type Storage interface {
	SaveTransactions(ctx context.Context, txns []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetBranchNames(ctx context.Context) ([]string, error)
	SaveMetricsSnapshot(ctx context.Context, recordedAt time.Time, branches []model.Branch) error
	GetMetricsHistory(ctx context.Context, branchName string, limit int) ([]model.MetricsSnapshot, error)
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for external I/O.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// CycleStats summarizes one processing cycle for logging and display.
type CycleStats struct {
	StartedAt         time.Time
	Duration          time.Duration
	Transactions      int
	MappedBranches    int
	UnmatchedFeed     int
	UnmatchedRegistry int
	Published         int
	AverageBHS        float64
}
