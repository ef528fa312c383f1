package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/branch-pulse/internal/common"
	"github.com/branch-pulse/internal/model"
)

// Feed header columns that must be present. Optional columns (sentiment,
// review_text) degrade to empty values when absent; a missing metric
// column would otherwise zero out every mean and inflate the scores, so
// the whole metric set is required.
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

// Reader pulls transaction records from the feed spreadsheet. It implements
// service.FeedSource.
type Reader struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewReader creates a new feed reader.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.FeedSpreadsheetID == "" {
		return nil, fmt.Errorf("feed spreadsheet ID must not be empty")
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Reader{service: srv, config: config, logger: logger}, nil
}

// FetchTransactions reads the whole feed sheet and coerces each row into a
// transaction. Malformed cells become missing values rather than dropping
// the row; rows without the identifying columns are skipped and counted.
func (r *Reader) FetchTransactions(ctx context.Context) ([]model.Transaction, error) {
	readRange := fmt.Sprintf("%s!A:Z", r.config.FeedSheetName)
	resp, err := r.service.Spreadsheets.Values.Get(r.config.FeedSpreadsheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFeedUnavailable, err)
	}

	if len(resp.Values) == 0 {
		r.logger.Warn("feed sheet is empty", "sheet", r.config.FeedSheetName)
		return nil, nil
	}

	columns, err := feedColumnIndex(resp.Values[0])
	if err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, 0, len(resp.Values)-1)
	skipped := 0
	for i, row := range resp.Values[1:] {
		txn, ok := rowToTransaction(row, columns)
		if !ok {
			skipped++
			r.logger.Warn("skipping malformed feed row", "row", i+2)
			continue
		}
		txns = append(txns, txn)
	}

	r.logger.Info("fetched feed transactions",
		"count", len(txns),
		"skipped", skipped)

	return txns, nil
}

// feedColumnIndex maps normalized header names to column positions and
// verifies the required columns exist.
func feedColumnIndex(header []any) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		name := normalizeHeader(cellString(cell))
		if name != "" {
			columns[name] = i
		}
	}

	for _, required := range requiredFeedColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: feed sheet missing column %q", common.ErrSchemaMismatch, required)
		}
	}

	return columns, nil
}

func normalizeHeader(s string) string {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	// Older exports name the end-to-end column total_time.
	if name == "total_time" {
		name = "transaction_time"
	}
	return name
}

func cellString(cell any) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}

func cellAt(row []any, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(cellString(row[idx]))
}

// rowToTransaction coerces one feed row. It returns false only when the row
// has no transaction ID or branch name; numeric cells that fail to parse
// become missing values.
func rowToTransaction(row []any, columns map[string]int) (model.Transaction, bool) {
	txn := model.Transaction{
		ID:         cellAt(row, columns, "transaction_id"),
		CustomerID: cellAt(row, columns, "customer_id"),
		BranchName: cellAt(row, columns, "branch_name"),
		Sentiment:  cellAt(row, columns, "sentiment"),
		ReviewText: cellAt(row, columns, "review_text"),
	}
	if txn.ID == "" || txn.BranchName == "" {
		return model.Transaction{}, false
	}

	txn.Type = model.ParseTransactionType(cellAt(row, columns, "transaction_type"))
	txn.Date = model.ParseDate(cellAt(row, columns, "date"))
	txn.WaitingTime = model.ParseNumber(cellAt(row, columns, "waiting_time"))
	txn.ProcessingTime = model.ParseNumber(cellAt(row, columns, "processing_time"))
	txn.TotalTime = model.ParseNumber(cellAt(row, columns, "transaction_time"))
	txn.SentimentScore = model.ParseNumber(cellAt(row, columns, "sentiment_score"))
	txn.Hash = txn.GenerateHash()

	return txn, true
}
