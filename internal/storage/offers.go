package storage

import (
	"context"
	"fmt"

	"github.com/halcyonlegal/casefile/internal/model"
)

// GetOffers retrieves the negotiation history.
func (s *SQLiteStore) GetOffers(ctx context.Context) ([]model.Offer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return loadRecord[[]model.Offer](ctx, s, keyOffers)
}

// SaveOffers persists the whole negotiation history.
func (s *SQLiteStore) SaveOffers(ctx context.Context, offers []model.Offer) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range offers {
		if err := offers[i].Validate(); err != nil {
			return fmt.Errorf("offer at index %d: %w", i, err)
		}
	}
	if offers == nil {
		offers = []model.Offer{}
	}
	return storeRecord(ctx, s, keyOffers, offers)
}
