package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/branch-pulse/internal/cli"
	"github.com/branch-pulse/internal/config"
	"github.com/branch-pulse/internal/csvio"
	"github.com/branch-pulse/internal/generator"
	"github.com/branch-pulse/internal/service"
	"github.com/branch-pulse/internal/sheets"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic transaction feed",
		Long: `Generates synthetic branch transactions with realistic type mixes, peak-day
surges, and time-linked sentiment, then delivers them to a CSV file or the
configured sheets feed. Use --interval to stream in paced batches.`,
		RunE: runGenerate,
	}

	cmd.Flags().String("branches-file", "", "branch list CSV (required)")
	cmd.Flags().String("start-date", "", "first day to generate, YYYY-MM-DD (default today)")
	cmd.Flags().Int("days", 1, "number of consecutive days")
	cmd.Flags().String("output", "", "output CSV path (default: append to the sheets feed)")
	cmd.Flags().String("reviews", "", "review samples CSV for review text")
	cmd.Flags().Int("good-pct", 70, "share of records with acceptable service times")
	cmd.Flags().Float64("dispersion", 1.0, "service-time stretch for degraded records")
	cmd.Flags().Int64("seed", 0, "random seed (0 = time-based)")
	cmd.Flags().Duration("interval", 0, "stream batches at this pace instead of bulk delivery")
	cmd.Flags().Int("batch-size", 5, "records per streamed batch")
	_ = cmd.MarkFlagRequired("branches-file")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	branchesFile, _ := cmd.Flags().GetString("branches-file")
	branches, err := csvio.LoadBranches(config.ExpandPath(branchesFile))
	if err != nil {
		return fmt.Errorf("failed to load branches: %w", err)
	}
	if len(branches) == 0 {
		return fmt.Errorf("no branches found in %s", branchesFile)
	}

	genConfig := generator.DefaultConfig()
	for _, b := range branches {
		genConfig.Branches = append(genConfig.Branches, b.Name)
	}
	genConfig.GoodPercentage, _ = cmd.Flags().GetInt("good-pct")
	genConfig.Dispersion, _ = cmd.Flags().GetFloat64("dispersion")
	genConfig.Seed, _ = cmd.Flags().GetInt64("seed")
	if reviews, _ := cmd.Flags().GetString("reviews"); reviews != "" {
		genConfig.ReviewSamplesPath = config.ExpandPath(reviews)
	}

	gen, err := generator.New(genConfig, logger)
	if err != nil {
		return err
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if raw, _ := cmd.Flags().GetString("start-date"); raw != "" {
		start, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", raw, err)
		}
	}
	days, _ := cmd.Flags().GetInt("days")
	if days < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	sink, err := buildSink(cmd, logger)
	if err != nil {
		return err
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	if interval > 0 {
		err = gen.Stream(ctx, sink, start, days, generator.StreamOptions{
			Interval:  interval,
			BatchSize: batchSize,
		})
	} else {
		txns := gen.GenerateRange(start, days)
		err = sink.AppendTransactions(ctx, txns)
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Generated %d day(s) for %d branches starting %s",
		days, len(branches), start.Format("2006-01-02"))))
	return nil
}

func buildSink(cmd *cobra.Command, logger *slog.Logger) (service.TransactionSink, error) {
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		return csvio.NewFeedWriter(config.ExpandPath(output), logger), nil
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, fmt.Errorf("no --output given and sheets feed not configured: %w", err)
	}
	return sheets.NewAppender(cmd.Context(), *sheetsConfig, logger)
}
