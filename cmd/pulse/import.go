package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/branch-pulse/internal/cli"
	"github.com/branch-pulse/internal/config"
	"github.com/branch-pulse/internal/csvio"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <feed.csv>",
		Short: "Import a feed CSV into the local database",
		Long: `Imports transaction records into the local cache. Previously imported
records are detected by content hash and skipped, so re-importing an
overlapping export is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	reader := csvio.NewFeedReader(config.ExpandPath(args[0]), logger)
	txns, err := reader.FetchTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to read feed: %w", err)
	}
	if len(txns) == 0 {
		fmt.Println(cli.FormatWarning("No transactions found in feed"))
		return nil
	}

	saved, err := store.SaveTransactions(ctx, txns)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d duplicates skipped)",
		saved, len(txns)-saved)))
	return nil
}
