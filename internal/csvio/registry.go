package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/branch-pulse/internal/common"
	"github.com/branch-pulse/internal/model"
)

var registryHeader = []string{
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

// Registry is a file-backed branch registry with the same column layout as
// the sheet. It implements service.RegistryStore.
type Registry struct {
	logger *slog.Logger
	path   string
}

// NewRegistry creates a registry over the given CSV file.
func NewRegistry(path string, logger *slog.Logger) *Registry {
	return &Registry{path: path, logger: logger}
}

// FetchBranches reads the registry file in row order.
func (r *Registry) FetchBranches(ctx context.Context) ([]model.Branch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(r.path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open registry file %s: %v", common.ErrRegistryUnavailable, r.path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", r.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns, err := columnIndex(records[0], []string{"branch_name"})
	if err != nil {
		return nil, err
	}

	branches := make([]model.Branch, 0, len(records)-1)
	for _, record := range records[1:] {
		branch := model.Branch{
			City:      fieldAt(record, columns, "city"),
			Name:      fieldAt(record, columns, "branch_name"),
			Address:   fieldAt(record, columns, "address"),
			Latitude:  fieldAt(record, columns, "latitude"),
			Longitude: fieldAt(record, columns, "longitude"),
		}
		if branch.Name == "" {
			continue
		}
		branch.Metrics.AvgWaitingTime = model.ParseNumber(fieldAt(record, columns, "avg_waiting_time"))
		branch.Metrics.AvgProcessingTime = model.ParseNumber(fieldAt(record, columns, "avg_processing_time"))
		branch.Metrics.AvgTransactionTime = model.ParseNumber(fieldAt(record, columns, "avg_transaction_time"))
		if count, err := strconv.Atoi(fieldAt(record, columns, "transaction_count")); err == nil {
			branch.Metrics.TransactionCount = count
		}
		branch.Metrics.AvgSentimentScore = model.ParseNumber(fieldAt(record, columns, "sentiment_score"))
		branch.Metrics.BHS = model.ParseNumber(fieldAt(record, columns, "bhs"))
		branches = append(branches, branch)
	}

	r.logger.Debug("read registry file", "path", r.path, "branches", len(branches))
	return branches, nil
}

// PublishMetrics rewrites the registry file, preserving row order.
func (r *Registry) PublishMetrics(ctx context.Context, branches []model.Branch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create registry file %s: %w", r.path, err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(registryHeader); err != nil {
		return fmt.Errorf("failed to write registry header: %w", err)
	}
	for _, b := range branches {
		m := b.Metrics
		record := []string{
			b.City,
			b.Name,
			b.Address,
			b.Latitude,
			b.Longitude,
			numberField(m.AvgWaitingTime),
			numberField(m.AvgProcessingTime),
			numberField(m.AvgTransactionTime),
			strconv.Itoa(m.TransactionCount),
			numberField(m.AvgSentimentScore),
			numberField(m.BHS),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write registry row %s: %w", b.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush registry file: %w", err)
	}

	r.logger.Info("published registry file", "path", r.path, "branches", len(branches))
	return nil
}
