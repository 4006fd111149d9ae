package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/service"
)

// Demand manages the demand-letter workflow: a draft can only be prepared
// once bills or documents are on file, and approval requires a draft.
type Demand struct {
	store service.Store
}

// NewDemand creates a demand manager.
func NewDemand(store service.Store) (*Demand, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Demand{store: store}, nil
}

// Get returns the demand record.
func (d *Demand) Get(ctx context.Context) (model.DemandState, error) {
	return d.store.GetDemand(ctx)
}

// CanDraft reports whether draft generation is currently allowed.
func (d *Demand) CanDraft(ctx context.Context) (bool, error) {
	providers, err := d.store.GetProviders(ctx)
	if err != nil {
		return false, err
	}
	record, err := d.store.GetIntake(ctx)
	if err != nil {
		return false, err
	}
	return HasBillsOnFile(providers, record.Uploads), nil
}

// MarkDraftReady records that the demand draft is prepared. Drafting stays
// disabled until bills or documents are on file.
func (d *Demand) MarkDraftReady(ctx context.Context) error {
	ok, err := d.CanDraft(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNoBillsOnFile
	}

	state, err := d.store.GetDemand(ctx)
	if err != nil {
		return err
	}
	state.DraftReady = true
	return d.store.SaveDemand(ctx, state)
}

// Approve approves the prepared draft for sending.
func (d *Demand) Approve(ctx context.Context, now time.Time) error {
	state, err := d.store.GetDemand(ctx)
	if err != nil {
		return err
	}
	if !state.DraftReady {
		return common.ErrDraftNotReady
	}
	if state.Approved {
		return common.ErrAlreadyApproved
	}

	state.Approved = true
	at := now
	state.ApprovedAt = &at
	return d.store.SaveDemand(ctx, state)
}
