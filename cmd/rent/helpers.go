package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/common"
	"github.com/Veraticus/the-rent-must-flow/internal/config"
	"github.com/Veraticus/the-rent-must-flow/internal/engine"
	"github.com/Veraticus/the-rent-must-flow/internal/period"
	"github.com/Veraticus/the-rent-must-flow/internal/service"
	"github.com/Veraticus/the-rent-must-flow/internal/storage"
	"github.com/spf13/viper"
)

// initStorage opens the configured database and brings its schema up to
// date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newEngine builds a report engine over store using the configured engine
// settings and category vocabulary.
func newEngine(store service.Storage) (*engine.Engine, error) {
	cfg, err := config.LoadEngineConfig(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Invalid engine configuration", err)
	}
	// No amortization schedule is wired into the CLI; reports omit interest.
	return engine.NewWithConfig(store, store, nil, cfg), nil
}

// resolveMonth parses a --month value ("2024-05"), defaulting to the
// current month.
func resolveMonth(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return period.MonthWindow(now.UTC()).Start, nil
	}
	month, err := period.ParseMonth(value)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("Invalid month %q, expected YYYY-MM", value), err)
	}
	return month, nil
}
