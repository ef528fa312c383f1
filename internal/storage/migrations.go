package storage

import (
	"context"
	"fmt"
)

type migration struct {
	version int
	name    string
	up      string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		up: `
		CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			hash TEXT NOT NULL UNIQUE,
			txn_date TIMESTAMP,
			customer_id TEXT NOT NULL,
			branch_name TEXT NOT NULL,
			txn_type TEXT NOT NULL,
			sentiment TEXT,
			review_text TEXT,
			waiting_time REAL,
			processing_time REAL,
			transaction_time REAL,
			sentiment_score REAL,
			imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_branch ON transactions(branch_name);
		CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(txn_date);
		`,
	},
	{
		version: 2,
		name:    "metrics_history",
		up: `
		CREATE TABLE IF NOT EXISTS metrics_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			branch_name TEXT NOT NULL,
			recorded_at TIMESTAMP NOT NULL,
			avg_waiting_time REAL,
			avg_processing_time REAL,
			avg_transaction_time REAL,
			transaction_count INTEGER NOT NULL DEFAULT 0,
			sentiment_score REAL,
			service_efficiency REAL,
			customer_experience REAL,
			peak_capacity REAL,
			financial_performance REAL,
			bhs REAL
		);
		CREATE INDEX IF NOT EXISTS idx_metrics_history_branch ON metrics_history(branch_name, recorded_at);
		`,
	},
}

// Migrate runs all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}

		if _, err := tx.ExecContext(ctx, m.up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}

		// PRAGMA cannot be parameterized.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
