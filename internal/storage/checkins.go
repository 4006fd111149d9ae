package storage

import (
	"context"

	"github.com/halcyonlegal/casefile/internal/model"
)

// GetCheckIns retrieves the client check-in entries.
func (s *SQLiteStore) GetCheckIns(ctx context.Context) ([]model.CheckIn, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return loadRecord[[]model.CheckIn](ctx, s, keyCheckIns)
}

// SaveCheckIns persists the whole check-in list.
func (s *SQLiteStore) SaveCheckIns(ctx context.Context, checkIns []model.CheckIn) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if checkIns == nil {
		checkIns = []model.CheckIn{}
	}
	return storeRecord(ctx, s, keyCheckIns, checkIns)
}
