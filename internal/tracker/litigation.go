package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/service"
)

// Litigation manages the litigation referral record.
type Litigation struct {
	store service.Store
}

// NewLitigation creates a litigation manager.
func NewLitigation(store service.Store) (*Litigation, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Litigation{store: store}, nil
}

// Get returns the litigation record.
func (l *Litigation) Get(ctx context.Context) (model.LitigationState, error) {
	return l.store.GetLitigation(ctx)
}

// Refer marks the case as referred to litigation counsel.
func (l *Litigation) Refer(ctx context.Context, firmName, notes string, now time.Time) error {
	state, err := l.store.GetLitigation(ctx)
	if err != nil {
		return err
	}
	state.Referred = true
	at := now
	state.ReferredAt = &at
	state.FirmName = firmName
	if notes != "" {
		state.Notes = notes
	}
	return l.store.SaveLitigation(ctx, state)
}

// DaysSinceReferral returns whole days since the referral, or zero when the
// case has not been referred.
func DaysSinceReferral(state model.LitigationState, now time.Time) int {
	if !state.Referred || state.ReferredAt == nil {
		return 0
	}
	days := int(now.Sub(*state.ReferredAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
