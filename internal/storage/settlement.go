package storage

import (
	"context"

	"github.com/halcyonlegal/casefile/internal/model"
)

// GetSettlement retrieves the settlement record.
func (s *SQLiteStore) GetSettlement(ctx context.Context) (model.SettlementState, error) {
	if err := validateContext(ctx); err != nil {
		return model.SettlementState{}, err
	}
	return loadRecord[model.SettlementState](ctx, s, keySettlement)
}

// SaveSettlement persists the settlement record.
func (s *SQLiteStore) SaveSettlement(ctx context.Context, settlement model.SettlementState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return storeRecord(ctx, s, keySettlement, settlement)
}

// GetPayees retrieves the settlement payee list.
func (s *SQLiteStore) GetPayees(ctx context.Context) ([]model.SettlementPayee, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return loadRecord[[]model.SettlementPayee](ctx, s, keySettlementPayees)
}

// SavePayees persists the whole settlement payee list.
func (s *SQLiteStore) SavePayees(ctx context.Context, payees []model.SettlementPayee) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if payees == nil {
		payees = []model.SettlementPayee{}
	}
	return storeRecord(ctx, s, keySettlementPayees, payees)
}
