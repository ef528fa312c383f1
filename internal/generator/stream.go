package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/branch-pulse/internal/service"
)

// StreamOptions controls the paced delivery of generated transactions.
type StreamOptions struct {
	Interval  time.Duration // delay between batches
	BatchSize int           // records per batch
}

// Stream delivers transactions to the sink in paced batches, simulating a
// live feed. It stops early when the context is canceled.
func (g *Generator) Stream(ctx context.Context, sink service.TransactionSink, start time.Time, days int, opts StreamOptions) error {
	if opts.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	all := g.GenerateRange(start, days)
	total := len(all)
	batches := (total + opts.BatchSize - 1) / opts.BatchSize

	g.logger.Info("streaming transactions",
		"total", total,
		"batches", batches,
		"interval", opts.Interval)

	for i := 0; i < total; i += opts.BatchSize {
		end := i + opts.BatchSize
		if end > total {
			end = total
		}

		if err := sink.AppendTransactions(ctx, all[i:end]); err != nil {
			return fmt.Errorf("failed to deliver batch at %d: %w", i, err)
		}
		g.logger.Debug("delivered batch", "delivered", end, "total", total)

		if end < total && opts.Interval > 0 {
			select {
			case <-time.After(opts.Interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	g.logger.Info("streaming complete", "delivered", total)
	return nil
}
