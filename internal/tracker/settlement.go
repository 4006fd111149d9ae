package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/service"
)

// Settlement manages the settlement record and its payee list.
type Settlement struct {
	store service.Store
}

// NewSettlement creates a settlement manager.
func NewSettlement(store service.Store) (*Settlement, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Settlement{store: store}, nil
}

// Get returns the settlement record and its payees.
func (s *Settlement) Get(ctx context.Context) (model.SettlementState, []model.SettlementPayee, error) {
	state, err := s.store.GetSettlement(ctx)
	if err != nil {
		return model.SettlementState{}, nil, err
	}
	payees, err := s.store.GetPayees(ctx)
	if err != nil {
		return state, nil, err
	}
	return state, payees, nil
}

// SetGross records the gross settlement amount.
func (s *Settlement) SetGross(ctx context.Context, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("gross amount cannot be negative")
	}
	return s.mutate(ctx, func(state *model.SettlementState) {
		state.GrossAmount = amount
	})
}

// MarkReleaseSigned records that the client signed the release.
func (s *Settlement) MarkReleaseSigned(ctx context.Context, now time.Time) error {
	return s.mutate(ctx, func(state *model.SettlementState) {
		state.ReleaseSigned = true
		at := now
		state.ReleaseSignedAt = &at
	})
}

// MarkFundsReceived records that settlement funds arrived.
func (s *Settlement) MarkFundsReceived(ctx context.Context, now time.Time) error {
	return s.mutate(ctx, func(state *model.SettlementState) {
		state.FundsReceived = true
		at := now
		state.FundsReceivedAt = &at
	})
}

// AddPayee adds a disbursement line.
func (s *Settlement) AddPayee(ctx context.Context, name, kind string, amount float64) (model.SettlementPayee, error) {
	if name == "" {
		return model.SettlementPayee{}, fmt.Errorf("payee name is required")
	}
	if amount < 0 {
		return model.SettlementPayee{}, fmt.Errorf("payee amount cannot be negative")
	}

	payee := model.SettlementPayee{
		ID:     uuid.NewString(),
		Name:   name,
		Kind:   kind,
		Amount: amount,
	}

	payees, err := s.store.GetPayees(ctx)
	if err != nil {
		return model.SettlementPayee{}, err
	}
	payees = append(payees, payee)
	if err := s.store.SavePayees(ctx, payees); err != nil {
		return model.SettlementPayee{}, err
	}
	return payee, nil
}

// RemovePayee deletes a disbursement line by identity.
func (s *Settlement) RemovePayee(ctx context.Context, id string) error {
	payees, err := s.store.GetPayees(ctx)
	if err != nil {
		return err
	}

	kept := payees[:0]
	found := false
	for _, payee := range payees {
		if payee.ID == id {
			found = true
			continue
		}
		kept = append(kept, payee)
	}
	if !found {
		return fmt.Errorf("payee %q: %w", id, common.ErrNotFound)
	}
	return s.store.SavePayees(ctx, kept)
}

func (s *Settlement) mutate(ctx context.Context, apply func(*model.SettlementState)) error {
	state, err := s.store.GetSettlement(ctx)
	if err != nil {
		return err
	}
	apply(&state)
	return s.store.SaveSettlement(ctx, state)
}

// SettlementStats derives the disbursement math: payee total, net to the
// client, and the payee share of gross.
func SettlementStats(state model.SettlementState, payees []model.SettlementPayee) service.SettlementStats {
	stats := service.SettlementStats{Gross: state.GrossAmount}
	for _, payee := range payees {
		stats.PayeeTotal += payee.Amount
	}
	stats.NetToClient = stats.Gross - stats.PayeeTotal
	if stats.Gross > 0 {
		stats.PercentOfGross = int(math.Round(100 * stats.PayeeTotal / stats.Gross))
	}
	return stats
}
