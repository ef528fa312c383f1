package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/branch-pulse/internal/common"
	"github.com/branch-pulse/internal/config"
	"github.com/branch-pulse/internal/csvio"
	"github.com/branch-pulse/internal/match"
	"github.com/branch-pulse/internal/service"
	"github.com/branch-pulse/internal/sheets"
	"github.com/branch-pulse/internal/storage"
)

// timeRound is the display precision for cycle durations.
const timeRound = time.Millisecond

// initStorage opens and migrates the local database.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// buildFeedSource selects the transaction feed from config: the sheets
// feed, a CSV file, or the local cache of previously imported feeds.
func buildFeedSource(ctx context.Context, logger *slog.Logger, store *storage.SQLiteStorage) (service.FeedSource, error) {
	switch source := viper.GetString("feed.source"); source {
	case "", "sheets":
		sheetsConfig, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, common.NewUserError("Google Sheets feed is not configured; run 'pulse auth' or set feed.source to csv", err)
		}
		return sheets.NewReader(ctx, *sheetsConfig, logger)
	case "csv":
		path := config.ExpandPath(viper.GetString("feed.path"))
		if path == "" {
			return nil, fmt.Errorf("feed.path is required for the csv feed source")
		}
		return csvio.NewFeedReader(path, logger), nil
	case "cache":
		if store == nil {
			return nil, fmt.Errorf("the cache feed source requires the local database")
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown feed source %q (want sheets, csv, or cache)", source)
	}
}

// buildRegistry selects the branch registry from config: the registry
// sheet or a CSV file.
func buildRegistry(ctx context.Context, logger *slog.Logger) (service.RegistryStore, error) {
	switch source := viper.GetString("registry.source"); source {
	case "", "sheets":
		sheetsConfig, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, common.NewUserError("Google Sheets registry is not configured; run 'pulse auth' or set registry.source to csv", err)
		}
		return sheets.NewRegistry(ctx, *sheetsConfig, logger)
	case "csv":
		path := config.ExpandPath(viper.GetString("registry.path"))
		if path == "" {
			return nil, fmt.Errorf("registry.path is required for the csv registry source")
		}
		return csvio.NewRegistry(path, logger), nil
	default:
		return nil, fmt.Errorf("unknown registry source %q (want sheets or csv)", source)
	}
}

// buildMatcher creates the branch matcher with the configured admission
// threshold.
func buildMatcher(logger *slog.Logger) *match.Matcher {
	threshold := viper.GetFloat64("matching.threshold")
	if threshold <= 0 {
		threshold = match.DefaultThreshold
	}
	return match.NewMatcher(threshold, match.WithLogger(logger))
}
