package storage

import (
	"context"

	"github.com/halcyonlegal/casefile/internal/model"
)

// GetLitigation retrieves the litigation decision record.
func (s *SQLiteStore) GetLitigation(ctx context.Context) (model.LitigationState, error) {
	if err := validateContext(ctx); err != nil {
		return model.LitigationState{}, err
	}
	return loadRecord[model.LitigationState](ctx, s, keyLitigation)
}

// SaveLitigation persists the litigation decision record.
func (s *SQLiteStore) SaveLitigation(ctx context.Context, litigation model.LitigationState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return storeRecord(ctx, s, keyLitigation, litigation)
}

// GetDemand retrieves the demand-letter record.
func (s *SQLiteStore) GetDemand(ctx context.Context) (model.DemandState, error) {
	if err := validateContext(ctx); err != nil {
		return model.DemandState{}, err
	}
	return loadRecord[model.DemandState](ctx, s, keyDemand)
}

// SaveDemand persists the demand-letter record.
func (s *SQLiteStore) SaveDemand(ctx context.Context, demand model.DemandState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return storeRecord(ctx, s, keyDemand, demand)
}

// GetBankInfo retrieves the payout bank record.
func (s *SQLiteStore) GetBankInfo(ctx context.Context) (model.BankInfo, error) {
	if err := validateContext(ctx); err != nil {
		return model.BankInfo{}, err
	}
	return loadRecord[model.BankInfo](ctx, s, keyBank)
}

// SaveBankInfo persists the payout bank record.
func (s *SQLiteStore) SaveBankInfo(ctx context.Context, info model.BankInfo) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return storeRecord(ctx, s, keyBank, info)
}
