package storage

import (
	"context"

	"github.com/halcyonlegal/casefile/internal/model"
)

// GetProviders retrieves the bills-and-records provider list.
func (s *SQLiteStore) GetProviders(ctx context.Context) ([]model.Provider, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return loadRecord[[]model.Provider](ctx, s, keyProviders)
}

// SaveProviders persists the whole provider list.
func (s *SQLiteStore) SaveProviders(ctx context.Context, providers []model.Provider) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if providers == nil {
		providers = []model.Provider{}
	}
	return storeRecord(ctx, s, keyProviders, providers)
}
