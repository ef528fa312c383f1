package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/branch-pulse/internal/common"
	"github.com/branch-pulse/internal/model"
)

// SaveMetricsSnapshot records one history row per branch for a completed
// processing cycle. Branches without data are recorded too, so gaps in
// coverage stay visible in the history.
func (s *SQLiteStorage) SaveMetricsSnapshot(ctx context.Context, recordedAt time.Time, branches []model.Branch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO metrics_history
		(branch_name, recorded_at, avg_waiting_time, avg_processing_time,
		 avg_transaction_time, transaction_count, sentiment_score,
		 service_efficiency, customer_experience, peak_capacity,
		 financial_performance, bhs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range branches {
		m := b.Metrics
		_, err := stmt.ExecContext(ctx,
			b.Name, recordedAt,
			nullableFloat(m.AvgWaitingTime), nullableFloat(m.AvgProcessingTime),
			nullableFloat(m.AvgTransactionTime), m.TransactionCount,
			nullableFloat(m.AvgSentimentScore),
			nullableFloat(m.ServiceEfficiency), nullableFloat(m.CustomerExperience),
			nullableFloat(m.PeakCapacity), nullableFloat(m.FinancialPerformance),
			nullableFloat(m.BHS))
		if err != nil {
			return fmt.Errorf("failed to insert snapshot for %s: %w", b.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// GetMetricsHistory returns the most recent snapshots for a branch, newest
// first. A limit of zero returns everything.
func (s *SQLiteStorage) GetMetricsHistory(ctx context.Context, branchName string, limit int) ([]model.MetricsSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(branchName, "branchName"); err != nil {
		return nil, err
	}

	query := `
		SELECT branch_name, recorded_at, avg_waiting_time, avg_processing_time,
		       avg_transaction_time, transaction_count, sentiment_score,
		       service_efficiency, customer_experience, peak_capacity,
		       financial_performance, bhs
		FROM metrics_history
		WHERE branch_name = ?
		ORDER BY recorded_at DESC, id DESC
	`
	args := []any{branchName}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []model.MetricsSnapshot
	for rows.Next() {
		var (
			snap                        model.MetricsSnapshot
			waiting, proc, total, sent   sql.NullFloat64
			eff, exp, peak, fin, overall sql.NullFloat64
		)
		err := rows.Scan(&snap.BranchName, &snap.RecordedAt, &waiting, &proc,
			&total, &snap.Metrics.TransactionCount, &sent,
			&eff, &exp, &peak, &fin, &overall)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.Metrics.AvgWaitingTime = floatOrMissing(waiting)
		snap.Metrics.AvgProcessingTime = floatOrMissing(proc)
		snap.Metrics.AvgTransactionTime = floatOrMissing(total)
		snap.Metrics.AvgSentimentScore = floatOrMissing(sent)
		snap.Metrics.ServiceEfficiency = floatOrMissing(eff)
		snap.Metrics.CustomerExperience = floatOrMissing(exp)
		snap.Metrics.PeakCapacity = floatOrMissing(peak)
		snap.Metrics.FinancialPerformance = floatOrMissing(fin)
		snap.Metrics.BHS = floatOrMissing(overall)
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("no history for branch %s: %w", branchName, common.ErrNotFound)
	}
	return snapshots, nil
}
