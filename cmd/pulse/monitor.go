package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/branch-pulse/internal/cli"
	"github.com/branch-pulse/internal/engine"
)

const defaultMonitorInterval = 30 * time.Second

func monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run scoring cycles on an interval",
		Long: `Repeatedly runs the scoring cycle until interrupted. A failed cycle is
logged and skipped; the next interval proceeds normally. Cycles never
overlap: the interval starts after the previous cycle finishes.`,
		RunE: runMonitor,
	}

	cmd.Flags().Duration("interval", 0, "delay between cycles (default 30s)")
	cmd.Flags().Float64("threshold", 0, "branch matching admission threshold (default 0.3)")
	_ = viper.BindPFlag("monitor.interval", cmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("matching.threshold", cmd.Flags().Lookup("threshold"))

	return cmd
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()

	interrupts := cli.NewInterruptHandler(os.Stdout)
	ctx := interrupts.HandleInterrupts(cmd.Context(), true)

	interval := viper.GetDuration("monitor.interval")
	if interval <= 0 {
		interval = defaultMonitorInterval
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	feed, err := buildFeedSource(ctx, logger, store)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(ctx, logger)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Monitoring branch health"))
	fmt.Println(cli.FormatInfo(fmt.Sprintf("Scoring every %s. Press Ctrl+C to stop.", interval)))

	e := engine.New(feed, registry, buildMatcher(logger), logger, engine.WithStorage(store))
	err = e.Run(ctx, interval)
	if errors.Is(err, context.Canceled) && interrupts.WasInterrupted() {
		return nil
	}
	return err
}
