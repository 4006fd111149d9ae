package storage

import (
	"context"

	"github.com/halcyonlegal/casefile/internal/model"
)

// GetReminders retrieves the incident reminder timeline. A nil state means
// no reminders have been configured, which is not an error.
func (s *SQLiteStore) GetReminders(ctx context.Context) (*model.ReminderState, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	state, err := loadRecord[*model.ReminderState](ctx, s, keyReminders)
	if err != nil {
		return nil, err
	}
	// A blob that decoded but is structurally unusable is treated the same
	// as a malformed one: no timeline.
	if state != nil && state.Validate() != nil {
		return nil, nil
	}
	return state, nil
}

// SaveReminders persists the incident reminder timeline.
func (s *SQLiteStore) SaveReminders(ctx context.Context, state *model.ReminderState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReminders(state); err != nil {
		return err
	}
	return storeRecord(ctx, s, keyReminders, state)
}

// DeleteReminders removes the reminder timeline entirely.
func (s *SQLiteStore) DeleteReminders(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteRecord(ctx, keyReminders)
}
