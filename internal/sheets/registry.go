package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/branch-pulse/internal/common"
	"github.com/branch-pulse/internal/model"
	"github.com/branch-pulse/internal/service"
)

// registryHeader is the fixed column layout of the branch registry sheet.
var registryHeader = []any{
	"city",
	"branch_name",
	"address",
	"latitude",
	"longitude",
	"avg_waiting_time",
	"avg_processing_time",
	"avg_transaction_time",
	"transaction_count",
	"sentiment_score",
	"bhs",
}

// Registry reads and rewrites the branch registry sheet. It implements
// service.RegistryStore.
type Registry struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewRegistry creates a new registry client.
func NewRegistry(ctx context.Context, config Config, logger *slog.Logger) (*Registry, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.RegistrySheetID == "" {
		return nil, fmt.Errorf("registry spreadsheet ID must not be empty")
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Registry{service: srv, config: config, logger: logger}, nil
}

// FetchBranches reads the registry sheet and returns its rows in sheet
// order. Rows without a branch name are skipped.
func (r *Registry) FetchBranches(ctx context.Context) ([]model.Branch, error) {
	readRange := fmt.Sprintf("%s!A:K", r.config.RegistrySheetName)
	resp, err := r.service.Spreadsheets.Values.Get(r.config.RegistrySheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRegistryUnavailable, err)
	}

	if len(resp.Values) == 0 {
		r.logger.Warn("registry sheet is empty", "sheet", r.config.RegistrySheetName)
		return nil, nil
	}

	branches := make([]model.Branch, 0, len(resp.Values)-1)
	for i, row := range resp.Values[1:] {
		branch, ok := rowToBranch(row)
		if !ok {
			r.logger.Warn("skipping registry row without branch name", "row", i+2)
			continue
		}
		branches = append(branches, branch)
	}

	r.logger.Info("fetched registry branches", "count", len(branches))
	return branches, nil
}

// PublishMetrics rewrites the registry sheet with updated metrics. Static
// columns are taken from the branch structs untouched, so row order and
// identity are preserved; callers append new branches at the end.
func (r *Registry) PublishMetrics(ctx context.Context, branches []model.Branch) error {
	values := make([][]any, 0, len(branches)+1)
	values = append(values, registryHeader)
	for _, b := range branches {
		values = append(values, branchRow(b))
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  r.config.RetryAttempts,
		InitialDelay: r.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err := common.WithRetry(ctx, func() error {
		return r.writeRows(ctx, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to publish registry: %w", err)
	}

	if r.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return r.applyFormatting(ctx, len(values))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already published.
			r.logger.Warn("failed to apply registry formatting", "error", err)
		}
	}

	r.logger.Info("published registry metrics", "branches", len(branches))
	return nil
}

func (r *Registry) writeRows(ctx context.Context, values [][]any) error {
	clearRange := fmt.Sprintf("%s!A:K", r.config.RegistrySheetName)
	_, err := r.service.Spreadsheets.Values.Clear(r.config.RegistrySheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear registry sheet: %w", err)
	}

	for i := 0; i < len(values); i += r.config.BatchSize {
		end := i + r.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		valueRange := &sheets.ValueRange{Values: values[i:end]}
		rangeStr := fmt.Sprintf("%s!A%d", r.config.RegistrySheetName, i+1)
		_, err := r.service.Spreadsheets.Values.Update(r.config.RegistrySheetID, rangeStr, valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		r.logger.Debug("wrote registry batch", "start_row", i+1, "rows", end-i)
	}

	return nil
}

func (r *Registry) applyFormatting(ctx context.Context, totalRows int) error {
	requests := []*sheets.Request{
		// Bold the header row.
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       0,
					StartRowIndex: 0,
					EndRowIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Two decimal places on the metric columns.
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    1,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 5,
					EndColumnIndex:   11,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "NUMBER",
							Pattern: "0.00",
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		// Freeze the header.
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: 0,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		// Auto-resize columns.
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   11,
				},
			},
		},
	}

	_, err := r.service.Spreadsheets.BatchUpdate(r.config.RegistrySheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
		Context(ctx).Do()
	return err
}

// rowToBranch parses one registry row. Metric cells are informational on
// read; they get recomputed every cycle.
func rowToBranch(row []any) (model.Branch, bool) {
	branch := model.Branch{
		City:      registryCell(row, 0),
		Name:      registryCell(row, 1),
		Address:   registryCell(row, 2),
		Latitude:  registryCell(row, 3),
		Longitude: registryCell(row, 4),
	}
	if branch.Name == "" {
		return model.Branch{}, false
	}

	branch.Metrics.AvgWaitingTime = model.ParseNumber(registryCell(row, 5))
	branch.Metrics.AvgProcessingTime = model.ParseNumber(registryCell(row, 6))
	branch.Metrics.AvgTransactionTime = model.ParseNumber(registryCell(row, 7))
	if count, err := strconv.Atoi(registryCell(row, 8)); err == nil {
		branch.Metrics.TransactionCount = count
	}
	branch.Metrics.AvgSentimentScore = model.ParseNumber(registryCell(row, 9))
	branch.Metrics.BHS = model.ParseNumber(registryCell(row, 10))

	return branch, true
}

func registryCell(row []any, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(cellString(row[idx]))
}

// branchRow renders one registry row. Branches without data this cycle
// publish zeros; TransactionCount zero is the "no data" marker.
func branchRow(b model.Branch) []any {
	m := b.Metrics
	return []any{
		b.City,
		b.Name,
		b.Address,
		b.Latitude,
		b.Longitude,
		m.AvgWaitingTime,
		m.AvgProcessingTime,
		m.AvgTransactionTime,
		m.TransactionCount,
		m.AvgSentimentScore,
		m.BHS,
	}
}
