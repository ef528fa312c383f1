package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/branch-pulse/internal/common"
	"github.com/branch-pulse/internal/model"
	"github.com/branch-pulse/internal/service"
)

var feedHeader = []any{
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

// Appender appends generated transactions to the feed sheet. It implements
// service.TransactionSink.
type Appender struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewAppender creates a new feed appender.
func NewAppender(ctx context.Context, config Config, logger *slog.Logger) (*Appender, error) {
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

	return &Appender{service: srv, config: config, logger: logger}, nil
}

// AppendTransactions appends the batch after the last row of the feed
// sheet, writing the header first if the sheet is empty.
func (a *Appender) AppendTransactions(ctx context.Context, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	if err := a.ensureHeader(ctx); err != nil {
		return err
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  a.config.RetryAttempts,
		InitialDelay: a.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	for i := 0; i < len(txns); i += a.config.BatchSize {
		end := i + a.config.BatchSize
		if end > len(txns) {
			end = len(txns)
		}

		values := make([][]any, 0, end-i)
		for _, txn := range txns[i:end] {
			values = append(values, transactionRow(txn))
		}

		err := common.WithRetry(ctx, func() error {
			rangeStr := fmt.Sprintf("%s!A:K", a.config.FeedSheetName)
			_, err := a.service.Spreadsheets.Values.Append(a.config.FeedSpreadsheetID, rangeStr,
				&sheets.ValueRange{Values: values}).
				ValueInputOption("USER_ENTERED").
				InsertDataOption("INSERT_ROWS").
				Context(ctx).
				Do()
			return err
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to append batch starting at %d: %w", i, err)
		}

		a.logger.Debug("appended feed batch", "rows", len(values))
	}

	a.logger.Info("appended feed transactions", "count", len(txns))
	return nil
}

func (a *Appender) ensureHeader(ctx context.Context) error {
	rangeStr := fmt.Sprintf("%s!A1:K1", a.config.FeedSheetName)
	resp, err := a.service.Spreadsheets.Values.Get(a.config.FeedSpreadsheetID, rangeStr).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrFeedUnavailable, err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	_, err = a.service.Spreadsheets.Values.Update(a.config.FeedSpreadsheetID, rangeStr,
		&sheets.ValueRange{Values: [][]any{feedHeader}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write feed header: %w", err)
	}
	return nil
}

func transactionRow(t model.Transaction) []any {
	date := ""
	if t.HasDate() {
		date = t.Date.Format("2006-01-02")
	}
	return []any{
		date,
		t.ID,
		t.CustomerID,
		t.BranchName,
		string(t.Type),
		t.Sentiment,
		t.ReviewText,
		numberCell(t.WaitingTime),
		numberCell(t.ProcessingTime),
		numberCell(t.TotalTime),
		numberCell(t.SentimentScore),
	}
}

// numberCell renders a metric cell; missing values become empty cells so
// the sheet never shows literal NaN text.
func numberCell(v float64) any {
	if model.IsMissing(v) {
		return ""
	}
	return v
}
