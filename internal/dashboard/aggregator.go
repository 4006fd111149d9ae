package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/halcyonlegal/casefile/internal/reminder"
	"github.com/halcyonlegal/casefile/internal/service"
)

// Aggregator reads every feature's record from the store into a Snapshot.
// Reminder state is materialized on the way through, which is the only
// write a poll tick can cause.
type Aggregator struct {
	store service.Store
	sched *reminder.Scheduler
}

// NewAggregator creates an aggregator over the given store and scheduler.
func NewAggregator(store service.Store, sched *reminder.Scheduler) (*Aggregator, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if sched == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	return &Aggregator{store: store, sched: sched}, nil
}

// Load reads all records at once. Each read is independent; there is no
// cross-record consistency beyond last-write-wins.
func (a *Aggregator) Load(ctx context.Context, now time.Time) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.IntakeStep, err = a.store.GetIntakeStep(ctx); err != nil {
		return snap, fmt.Errorf("failed to load intake step: %w", err)
	}
	if snap.Intake, err = a.store.GetIntake(ctx); err != nil {
		return snap, fmt.Errorf("failed to load intake record: %w", err)
	}
	if snap.Providers, err = a.store.GetProviders(ctx); err != nil {
		return snap, fmt.Errorf("failed to load providers: %w", err)
	}
	if snap.Offers, err = a.store.GetOffers(ctx); err != nil {
		return snap, fmt.Errorf("failed to load offers: %w", err)
	}
	if snap.CheckIns, err = a.store.GetCheckIns(ctx); err != nil {
		return snap, fmt.Errorf("failed to load check-ins: %w", err)
	}
	if snap.Demand, err = a.store.GetDemand(ctx); err != nil {
		return snap, fmt.Errorf("failed to load demand state: %w", err)
	}
	if snap.Settlement, err = a.store.GetSettlement(ctx); err != nil {
		return snap, fmt.Errorf("failed to load settlement state: %w", err)
	}
	if snap.Litigation, err = a.store.GetLitigation(ctx); err != nil {
		return snap, fmt.Errorf("failed to load litigation state: %w", err)
	}
	if snap.Reminders, err = a.sched.Materialize(ctx, now); err != nil {
		return snap, fmt.Errorf("failed to materialize reminders: %w", err)
	}

	return snap, nil
}

// Overview loads a snapshot and derives its checklist in one call.
func (a *Aggregator) Overview(ctx context.Context, now time.Time) (Snapshot, Checklist, error) {
	snap, err := a.Load(ctx, now)
	if err != nil {
		return snap, Checklist{}, err
	}
	return snap, Build(snap), nil
}
