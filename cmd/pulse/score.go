package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/branch-pulse/internal/cli"
	"github.com/branch-pulse/internal/engine"
	"github.com/branch-pulse/internal/storage"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Run one scoring cycle",
		Long: `Fetch the transaction feed, map feed branches onto the registry,
derive each branch's health score, and publish the updated registry.`,
		RunE: runScore,
	}

	cmd.Flags().Float64("threshold", 0, "branch matching admission threshold (default 0.3)")
	cmd.Flags().Bool("no-cache", false, "skip the local database (no import, no history)")
	_ = viper.BindPFlag("matching.threshold", cmd.Flags().Lookup("threshold"))

	return cmd
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	noCache, _ := cmd.Flags().GetBool("no-cache")

	var opts []engine.Option
	var store *storage.SQLiteStorage
	if !noCache {
		var err error
		store, err = initStorage(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, engine.WithStorage(store))
	}

	feed, err := buildFeedSource(ctx, logger, store)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(ctx, logger)
	if err != nil {
		return err
	}

	e := engine.New(feed, registry, buildMatcher(logger), logger, opts...)
	stats, err := e.RunCycle(ctx)
	if err != nil {
		return fmt.Errorf("scoring cycle failed: %w", err)
	}

	fmt.Println(cli.FormatTitle("Scoring cycle complete"))
	fmt.Println(cli.RenderBox("Cycle Summary", fmt.Sprintf(
		"Transactions:       %d\nMapped branches:    %d\nUnmatched feed:     %d\nUnmatched registry: %d\nPublished rows:     %d\nAverage BHS:        %s\nDuration:           %s",
		stats.Transactions,
		stats.MappedBranches,
		stats.UnmatchedFeed,
		stats.UnmatchedRegistry,
		stats.Published,
		cli.FormatScore(stats.AverageBHS),
		stats.Duration.Round(timeRound))))

	return nil
}
