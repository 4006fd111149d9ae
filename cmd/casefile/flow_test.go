package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/dashboard"
	"github.com/halcyonlegal/casefile/internal/intake"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/reminder"
	"github.com/halcyonlegal/casefile/internal/storage"
	"github.com/halcyonlegal/casefile/internal/tracker"
)

// TestCaseFlow walks a whole case end to end: intake, reminders, provider
// collection, demand, negotiation, settlement, and checks that the dashboard
// tracks each stage.
func TestCaseFlow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "case.db"))
	require.NoError(t, err)
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Logf("Failed to close store: %v", closeErr)
		}
	}()
	require.NoError(t, store.Migrate(ctx))

	sched, err := reminder.NewScheduler(store, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	agg, err := dashboard.NewAggregator(store, sched)
	require.NoError(t, err)

	// Nothing done yet
	_, checklist, err := agg.Overview(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, checklist.Percent)

	// Intake: fill each step and advance through review
	wizard, err := intake.NewManager(store)
	require.NoError(t, err)
	require.NoError(t, wizard.SetPersonal(ctx, model.PersonalInfo{
		FirstName: "Jordan",
		LastName:  "Reyes",
		Email:     "jordan.reyes@example.com",
		Phone:     "555-0100",
	}))
	require.NoError(t, wizard.SetIncident(ctx, model.IncidentDetails{
		Date:        "2026-02-01",
		Location:    "5th and Main",
		Description: "Rear-ended at a stop light",
	}))
	require.NoError(t, wizard.SetAgreements(ctx, model.Agreements{
		Retainer: true, HIPAA: true, Contingency: true,
	}))
	for {
		step, fieldErrs, advErr := wizard.Advance(ctx, now)
		require.NoError(t, advErr)
		require.Empty(t, fieldErrs)
		if step >= model.StepComplete {
			break
		}
	}

	// Reminders start with intake and advance lazily
	state, err := sched.EnsureScheduled(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, model.ReminderPending, state.SMS.Status)

	// Providers: one complete, which also satisfies the demand gate
	providers, err := tracker.NewProviders(store)
	require.NoError(t, err)
	mercy, err := providers.Add(ctx, "Mercy General", "555-0100")
	require.NoError(t, err)
	require.NoError(t, providers.MarkRequested(ctx, mercy.ID, now))
	require.NoError(t, providers.MarkRecordsReceived(ctx, mercy.ID, now.AddDate(0, 0, 7)))

	demand, err := tracker.NewDemand(store)
	require.NoError(t, err)
	assert.ErrorIs(t, demand.MarkDraftReady(ctx), common.ErrNoBillsOnFile)

	require.NoError(t, providers.MarkBillsReceived(ctx, mercy.ID, now.AddDate(0, 0, 10)))
	require.NoError(t, demand.MarkDraftReady(ctx))
	require.NoError(t, demand.Approve(ctx, now.AddDate(0, 0, 14)))

	// Negotiation
	offers, err := tracker.NewOffers(store)
	require.NoError(t, err)
	_, err = offers.Add(ctx, model.OriginClient, 90000, "demand amount", now.AddDate(0, 0, 14))
	require.NoError(t, err)
	_, err = offers.Add(ctx, model.OriginInsurer, 45000, "first offer", now.AddDate(0, 0, 21))
	require.NoError(t, err)

	// Settlement and disbursement
	settlement, err := tracker.NewSettlement(store)
	require.NoError(t, err)
	require.NoError(t, settlement.SetGross(ctx, 60000))
	require.NoError(t, settlement.MarkReleaseSigned(ctx, now.AddDate(0, 0, 30)))
	require.NoError(t, settlement.MarkFundsReceived(ctx, now.AddDate(0, 0, 45)))
	_, err = settlement.AddPayee(ctx, "Halcyon Legal", "fee", 20000)
	require.NoError(t, err)

	// Dashboard a month and a half in: every required step done, both
	// reminder channels fired by the elapsed time.
	snap, checklist, err := agg.Overview(ctx, now.AddDate(0, 0, 45))
	require.NoError(t, err)
	assert.Equal(t, 100, checklist.Percent)
	assert.Equal(t, -1, checklist.CurrentIndex)
	require.NotNil(t, snap.Reminders)
	assert.Equal(t, model.ReminderSent, snap.Reminders.SMS.Status)
	assert.Equal(t, model.ReminderCompleted, snap.Reminders.Call.Status)

	payees, err := store.GetPayees(ctx)
	require.NoError(t, err)
	stats := tracker.SettlementStats(snap.Settlement, payees)
	assert.InDelta(t, 40000, stats.NetToClient, 0.01)
}
