// Package testutil provides shared helpers for package tests: an isolated
// in-memory database and transaction fixtures.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/branch-pulse/internal/model"
	"github.com/branch-pulse/internal/storage"
)

// SetupTestDB creates a migrated in-memory database with automatic cleanup.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Transaction builds a populated transaction fixture. Override fields on
// the result as needed.
func Transaction(id, branch string, date time.Time) model.Transaction {
	txn := model.Transaction{
		Date:           date,
		ID:             id,
		CustomerID:     "N001",
		BranchName:     branch,
		Type:           model.TypeWithdrawal,
		Sentiment:      "positive",
		WaitingTime:    3,
		ProcessingTime: 4,
		TotalTime:      7,
		SentimentScore: 4.2,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}
