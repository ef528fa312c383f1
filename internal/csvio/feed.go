// Package csvio provides file-based implementations of the feed and sink
// contracts, used for offline runs and for seeding test fixtures.
package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/branch-pulse/internal/common"
	"github.com/branch-pulse/internal/model"
)

var feedHeader = []string{
	"date",
	"transaction_id",
	"customer_id",
	"branch_name",
	"transaction_type",
	"sentiment",
	"review_text",
	"waiting_time",
	"processing_time",
	"transaction_time",
	"sentiment_score",
}

// A feed missing any metric column would score every branch off all-zero
// means, so the metric columns are as mandatory as the identity ones.
var requiredFeedColumns = []string{
	"transaction_id",
	"branch_name",
	"transaction_type",
	"date",
	"waiting_time",
	"processing_time",
	"transaction_time",
	"sentiment_score",
}

// FeedReader reads transaction records from a CSV export. It implements
// service.FeedSource.
type FeedReader struct {
	logger *slog.Logger
	path   string
}

// NewFeedReader creates a reader for the given CSV file.
func NewFeedReader(path string, logger *slog.Logger) *FeedReader {
	return &FeedReader{path: path, logger: logger}
}

// FetchTransactions reads the whole file. Rows with malformed numeric cells
// keep the row with missing values; rows without identifying columns are
// skipped and counted.
func (r *FeedReader) FetchTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open feed file %s: %v", common.ErrFeedUnavailable, r.path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		r.logger.Warn("feed file is empty", "path", r.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", r.path, err)
	}

	columns, err := columnIndex(header, requiredFeedColumns)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	skipped := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", r.path, err)
		}
		line++

		txn, ok := recordToTransaction(record, columns)
		if !ok {
			skipped++
			r.logger.Warn("skipping malformed feed record", "path", r.path, "line", line)
			continue
		}
		txns = append(txns, txn)
	}

	r.logger.Info("read feed file", "path", r.path, "count", len(txns), "skipped", skipped)
	return txns, nil
}

// FeedWriter appends transactions to a CSV file, writing the header when
// the file is new. It implements service.TransactionSink.
type FeedWriter struct {
	logger *slog.Logger
	path   string
}

// NewFeedWriter creates a writer for the given CSV file.
func NewFeedWriter(path string, logger *slog.Logger) *FeedWriter {
	return &FeedWriter{path: path, logger: logger}
}

// AppendTransactions appends the batch to the file.
func (w *FeedWriter) AppendTransactions(ctx context.Context, txns []model.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(txns) == 0 {
		return nil
	}

	info, statErr := os.Stat(w.path)
	needHeader := statErr != nil || info.Size() == 0

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to open feed file %s: %w", w.path, err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if needHeader {
		if err := writer.Write(feedHeader); err != nil {
			return fmt.Errorf("failed to write feed header: %w", err)
		}
	}

	for _, txn := range txns {
		if err := writer.Write(transactionRecord(txn)); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", txn.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush feed file: %w", err)
	}

	w.logger.Debug("appended feed records", "path", w.path, "count", len(txns))
	return nil
}

func columnIndex(header []string, required []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
		// Older exports name the end-to-end column total_time.
		if key == "total_time" {
			key = "transaction_time"
		}
		if key != "" {
			columns[key] = i
		}
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: feed file missing column %q", common.ErrSchemaMismatch, name)
		}
	}
	return columns, nil
}

func fieldAt(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func recordToTransaction(record []string, columns map[string]int) (model.Transaction, bool) {
	txn := model.Transaction{
		ID:         fieldAt(record, columns, "transaction_id"),
		CustomerID: fieldAt(record, columns, "customer_id"),
		BranchName: fieldAt(record, columns, "branch_name"),
		Sentiment:  fieldAt(record, columns, "sentiment"),
		ReviewText: fieldAt(record, columns, "review_text"),
	}
	if txn.ID == "" || txn.BranchName == "" {
		return model.Transaction{}, false
	}

	txn.Type = model.ParseTransactionType(fieldAt(record, columns, "transaction_type"))
	txn.Date = model.ParseDate(fieldAt(record, columns, "date"))
	txn.WaitingTime = model.ParseNumber(fieldAt(record, columns, "waiting_time"))
	txn.ProcessingTime = model.ParseNumber(fieldAt(record, columns, "processing_time"))
	txn.TotalTime = model.ParseNumber(fieldAt(record, columns, "transaction_time"))
	txn.SentimentScore = model.ParseNumber(fieldAt(record, columns, "sentiment_score"))
	txn.Hash = txn.GenerateHash()

	return txn, true
}

func transactionRecord(t model.Transaction) []string {
	date := ""
	if t.HasDate() {
		date = t.Date.Format("2006-01-02")
	}
	return []string{
		date,
		t.ID,
		t.CustomerID,
		t.BranchName,
		string(t.Type),
		t.Sentiment,
		t.ReviewText,
		numberField(t.WaitingTime),
		numberField(t.ProcessingTime),
		numberField(t.TotalTime),
		numberField(t.SentimentScore),
	}
}

func numberField(v float64) string {
	if model.IsMissing(v) {
		return ""
	}
	return fmt.Sprintf("%g", v)
}
