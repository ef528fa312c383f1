package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/branch-pulse/internal/cli"
	"github.com/branch-pulse/internal/common"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <branch-name>",
		Short: "Show a branch's recorded score history",
		Long: `Lists the metrics snapshots recorded for a branch by past scoring cycles,
newest first. Requires cycles to have run with the local database enabled.`,
		Args: cobra.ExactArgs(1),
		RunE: runHistory,
	}
	cmd.Flags().Int("limit", 10, "number of snapshots to show (0 = all)")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	snapshots, err := store.GetMetricsHistory(ctx, args[0], limit)
	if errors.Is(err, common.ErrNotFound) {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("No history recorded for %q", args[0])))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Score history: %s", args[0])))

	header := fmt.Sprintf("%-20s %8s %6s %6s %6s %6s %8s",
		"Recorded", "BHS", "Eff", "Exp", "Peak", "Fin", "Txns")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	var rows []string
	for _, snap := range snapshots {
		m := snap.Metrics
		row := fmt.Sprintf("%-20s %8s %6.1f %6.1f %6.1f %6.1f %8d",
			snap.RecordedAt.Format("2006-01-02 15:04"),
			cli.FormatScore(m.BHS),
			m.ServiceEfficiency,
			m.CustomerExperience,
			m.PeakCapacity,
			m.FinancialPerformance,
			m.TransactionCount)
		rows = append(rows, row)
	}
	fmt.Println(strings.Join(rows, "\n"))

	return nil
}
