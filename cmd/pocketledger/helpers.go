package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"pocketledger/internal/common"
	"pocketledger/internal/config"
	"pocketledger/internal/service"
	"pocketledger/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("failed to open database", err)
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, common.NewUserError("failed to run migrations", err)
	}

	return store, nil
}

// parseAmount parses a decimal amount from a command argument. Range
// validation is left to the services.
func parseAmount(arg string) (float64, error) {
	amount, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	return amount, nil
}

// parseDate parses a YYYY-MM-DD argument, defaulting to today when empty.
func parseDate(arg string) (time.Time, error) {
	if arg == "" {
		return time.Now(), nil
	}
	date, err := time.Parse("2006-01-02", arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", arg, err)
	}
	return date, nil
}

// parsePeriod parses a YYYY-MM argument, defaulting to the current month
// when empty.
func parsePeriod(arg string) (year, month int, err error) {
	if arg == "" {
		now := time.Now()
		return now.Year(), int(now.Month()), nil
	}
	period, err := time.Parse("2006-01", arg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period %q, expected YYYY-MM: %w", arg, err)
	}
	return period.Year(), int(period.Month()), nil
}
