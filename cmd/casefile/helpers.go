package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/halcyonlegal/casefile/internal/config"
	"github.com/halcyonlegal/casefile/internal/reminder"
	"github.com/halcyonlegal/casefile/internal/service"
	"github.com/halcyonlegal/casefile/internal/storage"
)

// initStore opens the case database and applies pending migrations.
func initStore(ctx context.Context) (*storage.SQLiteStore, error) {
	dbPath, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open case database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate case database: %w", err)
	}

	return store, nil
}

func databasePath() (string, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "casefile", "case.db")
	}
	return config.ExpandPath(dbPath), nil
}

// newScheduler builds the reminder scheduler from configured delays.
func newScheduler(store service.Store) (*reminder.Scheduler, error) {
	return reminder.NewScheduler(store,
		viper.GetDuration("reminders.sms_delay"),
		viper.GetDuration("reminders.call_delay"))
}

// checkInCadenceDays returns the configured client check-in cadence.
func checkInCadenceDays() int {
	return viper.GetInt("checkins.cadence_days")
}
