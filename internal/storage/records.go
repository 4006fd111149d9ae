package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/service"
)

// Record keys. Each feature owns exactly one namespaced key and persists its
// whole record on every mutation; keys never reference each other.
const (
	keyIntakeState      = "intake-state"
	keyIntakeStep       = "intake-step"
	keyProviders        = "bills-records-providers"
	keyDemand           = "demand-state"
	keyOffers           = "negotiations-offers"
	keySettlement       = "settlement-state"
	keySettlementPayees = "settlement-providers"
	keyLitigation       = "litigation-state"
	keyCheckIns         = "checkins-data"
	keyReminders        = "incident-reminders"
	keyBank             = "settings-bank"
)

// getRecord fetches the raw JSON blob for a key. A missing key is not an
// error; it reports found=false.
func (s *SQLiteStore) getRecord(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM records WHERE key = ?
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get record %q: %w", key, err)
	}
	return value, true, nil
}

// setRecord stores the raw JSON blob for a key, replacing any previous value.
// Writes retry briefly so a concurrent snapshot cannot fail a mutation.
func (s *SQLiteStore) setRecord(ctx context.Context, key, value string) error {
	op := func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO records (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, key, value, time.Now().UTC())
		return err
	}

	if err := common.WithRetry(ctx, op, service.RetryOptions{MaxAttempts: 3}); err != nil {
		return fmt.Errorf("failed to set record %q: %w", key, err)
	}
	return nil
}

// deleteRecord removes a key. Deleting an absent key is a no-op.
func (s *SQLiteStore) deleteRecord(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete record %q: %w", key, err)
	}
	return nil
}

// loadRecord decodes the record at key into T. Absent or malformed data
// yields the zero value: corrupt blobs are discarded, never surfaced.
func loadRecord[T any](ctx context.Context, s *SQLiteStore, key string) (T, error) {
	var zero T

	raw, found, err := s.getRecord(ctx, key)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		slog.Debug("Discarding malformed record",
			"key", key,
			"error", err)
		return zero, nil
	}
	return out, nil
}

// storeRecord encodes v and persists it at key.
func storeRecord[T any](ctx context.Context, s *SQLiteStore, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", key, err)
	}
	return s.setRecord(ctx, key, string(data))
}

// RecordCount returns the number of persisted records, used by snapshots.
func (s *SQLiteStore) RecordCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
