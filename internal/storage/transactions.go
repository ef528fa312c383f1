package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/branch-pulse/internal/model"
	"github.com/branch-pulse/internal/service"
)

// nullableFloat maps a missing metric cell to SQL NULL so aggregates in the
// database behave the same way as the in-memory scorers.
func nullableFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrMissing(v sql.NullFloat64) float64 {
	if !v.Valid {
		return model.Missing()
	}
	return v.Float64
}

func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// SaveTransactions stores a batch of transactions, skipping any whose hash
// has already been imported.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions
		(id, hash, txn_date, customer_id, branch_name, txn_type, sentiment,
		 review_text, waiting_time, processing_time, transaction_time, sentiment_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	saved := 0
	for i := range txns {
		t := &txns[i]
		if t.Hash == "" {
			t.Hash = t.GenerateHash()
		}
		res, err := stmt.ExecContext(ctx,
			t.ID, t.Hash, nullableTime(t.Date), t.CustomerID, t.BranchName,
			string(t.Type), t.Sentiment, t.ReviewText,
			nullableFloat(t.WaitingTime), nullableFloat(t.ProcessingTime),
			nullableFloat(t.TotalTime), nullableFloat(t.SentimentScore))
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check insert result: %w", err)
		}
		saved += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return saved, nil
}

const transactionColumns = `
	id, txn_date, customer_id, branch_name, txn_type, sentiment,
	review_text, hash, waiting_time, processing_time, transaction_time, sentiment_score
`

// GetTransactions returns stored transactions matching the filter. Nil or
// zero filter fields are open ended.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := "SELECT " + transactionColumns + " FROM transactions WHERE 1=1"
	args := []any{}
	if filter.StartDate != nil {
		query += " AND txn_date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND txn_date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.BranchName != "" {
		query += " AND branch_name = ?"
		args = append(args, filter.BranchName)
	}
	query += " ORDER BY txn_date, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// FetchTransactions implements service.FeedSource over the local database, so
// previously imported feeds can be rescored offline.
func (s *SQLiteStorage) FetchTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.GetTransactions(ctx, service.TransactionFilter{})
}

// GetBranchNames returns the distinct branch names seen in stored transactions.
func (s *SQLiteStorage) GetBranchNames(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT branch_name FROM transactions ORDER BY branch_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query branch names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan branch name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate branch names: %w", err)
	}
	return names, nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var (
		t        model.Transaction
		typ      string
		date     sql.NullTime
		waiting  sql.NullFloat64
		proc     sql.NullFloat64
		total    sql.NullFloat64
		sentimnt sql.NullFloat64
	)
	err := rows.Scan(&t.ID, &date, &t.CustomerID, &t.BranchName, &typ,
		&t.Sentiment, &t.ReviewText, &t.Hash, &waiting, &proc, &total, &sentimnt)
	if err != nil {
		return t, fmt.Errorf("failed to scan transaction: %w", err)
	}
	if date.Valid {
		t.Date = date.Time
	}
	t.Type = model.TransactionType(typ)
	t.WaitingTime = floatOrMissing(waiting)
	t.ProcessingTime = floatOrMissing(proc)
	t.TotalTime = floatOrMissing(total)
	t.SentimentScore = floatOrMissing(sentimnt)
	return t, nil
}
