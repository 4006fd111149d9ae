package reminder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/storage"
)

func createTestScheduler(t *testing.T, smsDelay, callDelay time.Duration) (*Scheduler, *storage.SQLiteStore) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	sched, err := NewScheduler(store, smsDelay, callDelay)
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	return sched, store
}

func TestNewScheduler(t *testing.T) {
	tests := []struct {
		name      string
		smsDelay  time.Duration
		callDelay time.Duration
		wantErr   bool
	}{
		{
			name:      "valid delays",
			smsDelay:  time.Hour,
			callDelay: 24 * time.Hour,
			wantErr:   false,
		},
		{
			name:      "zero delays fall back to defaults",
			smsDelay:  0,
			callDelay: 0,
			wantErr:   false,
		},
		{
			name:      "sms delay equal to call delay",
			smsDelay:  time.Hour,
			callDelay: time.Hour,
			wantErr:   true,
		},
		{
			name:      "sms delay after call delay",
			smsDelay:  48 * time.Hour,
			callDelay: 24 * time.Hour,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := filepath.Join(t.TempDir(), "test.db")
			store, err := storage.NewSQLiteStore(dbPath)
			if err != nil {
				t.Fatalf("Failed to create store: %v", err)
			}
			defer func() { _ = store.Close() }()

			_, err = NewScheduler(store, tt.smsDelay, tt.callDelay)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewScheduler() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := NewScheduler(nil, time.Hour, 24*time.Hour); err == nil {
		t.Error("NewScheduler() with nil store should fail")
	}
}

func TestScheduler_EnsureScheduled(t *testing.T) {
	ctx := context.Background()
	sched, _ := createTestScheduler(t, 4*time.Second, 7*time.Second)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	state, err := sched.EnsureScheduled(ctx, base)
	if err != nil {
		t.Fatalf("EnsureScheduled() failed: %v", err)
	}

	if !state.Enabled {
		t.Error("new timeline should be enabled")
	}
	if !state.SMS.ScheduledAt.Equal(base.Add(4 * time.Second)) {
		t.Errorf("sms scheduled at %v, want %v", state.SMS.ScheduledAt, base.Add(4*time.Second))
	}
	if !state.Call.ScheduledAt.Equal(base.Add(7 * time.Second)) {
		t.Errorf("call scheduled at %v, want %v", state.Call.ScheduledAt, base.Add(7*time.Second))
	}
	if state.SMS.Status != model.ReminderPending || state.Call.Status != model.ReminderPending {
		t.Errorf("new channels should be pending, got sms=%s call=%s", state.SMS.Status, state.Call.Status)
	}
	if err := state.Validate(); err != nil {
		t.Errorf("new timeline failed validation: %v", err)
	}

	// A second call must not reset the existing timeline
	again, err := sched.EnsureScheduled(ctx, base.Add(time.Second))
	if err != nil {
		t.Fatalf("EnsureScheduled() second call failed: %v", err)
	}
	if !again.SMS.ScheduledAt.Equal(state.SMS.ScheduledAt) {
		t.Error("second EnsureScheduled() rescheduled the sms channel")
	}
	if !again.CreatedAt.Equal(state.CreatedAt) {
		t.Error("second EnsureScheduled() changed the creation time")
	}
}

func TestScheduler_Materialize(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("no timeline returns nil without error", func(t *testing.T) {
		sched, _ := createTestScheduler(t, 4*time.Second, 7*time.Second)
		state, err := sched.Materialize(ctx, base)
		if err != nil {
			t.Fatalf("Materialize() failed: %v", err)
		}
		if state != nil {
			t.Errorf("Materialize() without a timeline = %+v, want nil", state)
		}
	})

	t.Run("advances each channel at its scheduled time", func(t *testing.T) {
		sched, _ := createTestScheduler(t, 4*time.Second, 7*time.Second)
		if _, err := sched.EnsureScheduled(ctx, base); err != nil {
			t.Fatalf("EnsureScheduled() failed: %v", err)
		}

		// Before either channel is due
		state, err := sched.Materialize(ctx, base.Add(2*time.Second))
		if err != nil {
			t.Fatalf("Materialize() failed: %v", err)
		}
		if state.SMS.Status != model.ReminderPending || state.Call.Status != model.ReminderPending {
			t.Errorf("before due: got sms=%s call=%s, want both pending", state.SMS.Status, state.Call.Status)
		}

		// SMS due, call not yet
		state, err = sched.Materialize(ctx, base.Add(4*time.Second))
		if err != nil {
			t.Fatalf("Materialize() failed: %v", err)
		}
		if state.SMS.Status != model.ReminderSent {
			t.Errorf("at sms time: sms status = %s, want sent", state.SMS.Status)
		}
		if state.SMS.SentAt == nil {
			t.Error("at sms time: SentAt not recorded")
		}
		if state.Call.Status != model.ReminderPending {
			t.Errorf("at sms time: call status = %s, want pending", state.Call.Status)
		}

		// Both due
		state, err = sched.Materialize(ctx, base.Add(7*time.Second))
		if err != nil {
			t.Fatalf("Materialize() failed: %v", err)
		}
		if state.Call.Status != model.ReminderCompleted {
			t.Errorf("at call time: call status = %s, want completed", state.Call.Status)
		}
		if state.Call.CompletedAt == nil {
			t.Error("at call time: CompletedAt not recorded")
		}
		if state.Active() {
			t.Error("fully advanced timeline should not be active")
		}
	})

	t.Run("idempotent for the same elapsed interval", func(t *testing.T) {
		sched, _ := createTestScheduler(t, 4*time.Second, 7*time.Second)
		if _, err := sched.EnsureScheduled(ctx, base); err != nil {
			t.Fatalf("EnsureScheduled() failed: %v", err)
		}

		first, err := sched.Materialize(ctx, base.Add(5*time.Second))
		if err != nil {
			t.Fatalf("Materialize() failed: %v", err)
		}
		second, err := sched.Materialize(ctx, base.Add(5*time.Second))
		if err != nil {
			t.Fatalf("Materialize() repeat failed: %v", err)
		}

		if second.SMS.Status != first.SMS.Status {
			t.Errorf("repeat changed sms status: %s -> %s", first.SMS.Status, second.SMS.Status)
		}
		if !second.SMS.SentAt.Equal(*first.SMS.SentAt) {
			t.Errorf("repeat changed SentAt: %v -> %v", first.SMS.SentAt, second.SMS.SentAt)
		}
		if !second.LastUpdated.Equal(first.LastUpdated) {
			t.Errorf("repeat changed LastUpdated: %v -> %v", first.LastUpdated, second.LastUpdated)
		}
	})

	t.Run("long gap advances both channels in one pass", func(t *testing.T) {
		sched, _ := createTestScheduler(t, 4*time.Second, 7*time.Second)
		if _, err := sched.EnsureScheduled(ctx, base); err != nil {
			t.Fatalf("EnsureScheduled() failed: %v", err)
		}

		state, err := sched.Materialize(ctx, base.Add(time.Hour))
		if err != nil {
			t.Fatalf("Materialize() failed: %v", err)
		}
		if state.SMS.Status != model.ReminderSent || state.Call.Status != model.ReminderCompleted {
			t.Errorf("after long gap: got sms=%s call=%s, want sent/completed",
				state.SMS.Status, state.Call.Status)
		}
	})
}

func TestScheduler_Cancel(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("overrides both statuses even after sms fired", func(t *testing.T) {
		sched, _ := createTestScheduler(t, 4*time.Second, 7*time.Second)
		if _, err := sched.EnsureScheduled(ctx, base); err != nil {
			t.Fatalf("EnsureScheduled() failed: %v", err)
		}
		if _, err := sched.Materialize(ctx, base.Add(5*time.Second)); err != nil {
			t.Fatalf("Materialize() failed: %v", err)
		}

		canceledAt := base.Add(6 * time.Second)
		state, err := sched.Cancel(ctx, ReasonCanceled, canceledAt)
		if err != nil {
			t.Fatalf("Cancel() failed: %v", err)
		}

		if state.Enabled {
			t.Error("canceled timeline should be disabled")
		}
		if state.SMS.Status != model.ReminderCanceled {
			t.Errorf("sms status = %s, want canceled", state.SMS.Status)
		}
		if state.Call.Status != model.ReminderCanceled {
			t.Errorf("call status = %s, want canceled", state.Call.Status)
		}
		if state.CanceledAt == nil || !state.CanceledAt.Equal(canceledAt) {
			t.Errorf("CanceledAt = %v, want %v", state.CanceledAt, canceledAt)
		}

		// Time passing afterwards must not resurrect the call channel
		after, err := sched.Materialize(ctx, base.Add(time.Hour))
		if err != nil {
			t.Fatalf("Materialize() after cancel failed: %v", err)
		}
		if after.Call.Status != model.ReminderCanceled {
			t.Errorf("call status after cancel = %s, want canceled", after.Call.Status)
		}
	})

	t.Run("completed reason marks both channels completed", func(t *testing.T) {
		sched, _ := createTestScheduler(t, 4*time.Second, 7*time.Second)
		if _, err := sched.EnsureScheduled(ctx, base); err != nil {
			t.Fatalf("EnsureScheduled() failed: %v", err)
		}

		state, err := sched.Cancel(ctx, ReasonCompleted, base.Add(time.Second))
		if err != nil {
			t.Fatalf("Cancel() failed: %v", err)
		}
		if state.SMS.Status != model.ReminderCompleted || state.Call.Status != model.ReminderCompleted {
			t.Errorf("got sms=%s call=%s, want both completed", state.SMS.Status, state.Call.Status)
		}
		if state.CompletedAt == nil {
			t.Error("CompletedAt not recorded")
		}
	})

	t.Run("missing timeline is a no-op", func(t *testing.T) {
		sched, _ := createTestScheduler(t, 4*time.Second, 7*time.Second)
		state, err := sched.Cancel(ctx, ReasonCanceled, base)
		if err != nil {
			t.Fatalf("Cancel() failed: %v", err)
		}
		if state != nil {
			t.Errorf("Cancel() without a timeline = %+v, want nil", state)
		}
	})

	t.Run("invalid reason", func(t *testing.T) {
		sched, _ := createTestScheduler(t, 4*time.Second, 7*time.Second)
		if _, err := sched.Cancel(ctx, CancelReason("snoozed"), base); err == nil {
			t.Error("Cancel() with invalid reason should fail")
		}
	})
}

func TestAdvance(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	pending := func() model.ReminderState {
		return model.ReminderState{
			CreatedAt:   base,
			LastUpdated: base,
			Enabled:     true,
			SMS: model.SMSReminder{
				ScheduledAt: base.Add(4 * time.Second),
				Status:      model.ReminderPending,
			},
			Call: model.CallReminder{
				ScheduledAt: base.Add(7 * time.Second),
				Status:      model.ReminderPending,
			},
		}
	}

	tests := []struct {
		name        string
		state       model.ReminderState
		now         time.Time
		wantSMS     model.ReminderStatus
		wantCall    model.ReminderStatus
		wantChanged bool
	}{
		{
			name:        "both pending before schedules",
			state:       pending(),
			now:         base.Add(3 * time.Second),
			wantSMS:     model.ReminderPending,
			wantCall:    model.ReminderPending,
			wantChanged: false,
		},
		{
			name:        "sms fires exactly at its scheduled time",
			state:       pending(),
			now:         base.Add(4 * time.Second),
			wantSMS:     model.ReminderSent,
			wantCall:    model.ReminderPending,
			wantChanged: true,
		},
		{
			name:        "call fires exactly at its scheduled time",
			state:       pending(),
			now:         base.Add(7 * time.Second),
			wantSMS:     model.ReminderSent,
			wantCall:    model.ReminderCompleted,
			wantChanged: true,
		},
		{
			name: "disabled timeline never advances",
			state: func() model.ReminderState {
				s := pending()
				s.Enabled = false
				return s
			}(),
			now:         base.Add(time.Hour),
			wantSMS:     model.ReminderPending,
			wantCall:    model.ReminderPending,
			wantChanged: false,
		},
		{
			name: "fired channels stay put",
			state: func() model.ReminderState {
				s := pending()
				sentAt := base.Add(4 * time.Second)
				s.SMS.Status = model.ReminderSent
				s.SMS.SentAt = &sentAt
				return s
			}(),
			now:         base.Add(5 * time.Second),
			wantSMS:     model.ReminderSent,
			wantCall:    model.ReminderPending,
			wantChanged: false,
		},
		{
			name: "canceled channels are not resurrected",
			state: func() model.ReminderState {
				s := pending()
				s.SMS.Status = model.ReminderCanceled
				s.Call.Status = model.ReminderCanceled
				return s
			}(),
			now:         base.Add(time.Hour),
			wantSMS:     model.ReminderCanceled,
			wantCall:    model.ReminderCanceled,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := Advance(tt.state, tt.now)
			if next.SMS.Status != tt.wantSMS {
				t.Errorf("sms status = %s, want %s", next.SMS.Status, tt.wantSMS)
			}
			if next.Call.Status != tt.wantCall {
				t.Errorf("call status = %s, want %s", next.Call.Status, tt.wantCall)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if changed && !next.LastUpdated.Equal(tt.now) {
				t.Errorf("LastUpdated = %v, want %v", next.LastUpdated, tt.now)
			}
		})
	}
}

func TestTransitions(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	state := model.ReminderState{
		CreatedAt:   base,
		LastUpdated: base,
		Enabled:     true,
		SMS: model.SMSReminder{
			ScheduledAt: base.Add(4 * time.Second),
			Status:      model.ReminderPending,
		},
		Call: model.CallReminder{
			ScheduledAt: base.Add(7 * time.Second),
			Status:      model.ReminderPending,
		},
	}

	smsFired, _ := Advance(state, base.Add(5*time.Second))
	bothFired, _ := Advance(smsFired, base.Add(8*time.Second))

	t.Run("sms transition reported once", func(t *testing.T) {
		events := Transitions(&state, &smsFired)
		if len(events) != 1 {
			t.Fatalf("got %d events, want 1", len(events))
		}
		if events[0].Channel != "sms" || events[0].Status != model.ReminderSent {
			t.Errorf("event = %+v, want sms/sent", events[0])
		}
		if !events[0].At.Equal(base.Add(5 * time.Second)) {
			t.Errorf("event at %v, want %v", events[0].At, base.Add(5*time.Second))
		}
	})

	t.Run("no change yields no events", func(t *testing.T) {
		if events := Transitions(&smsFired, &smsFired); len(events) != 0 {
			t.Errorf("got %d events for identical states, want 0", len(events))
		}
	})

	t.Run("call transition after sms", func(t *testing.T) {
		events := Transitions(&smsFired, &bothFired)
		if len(events) != 1 {
			t.Fatalf("got %d events, want 1", len(events))
		}
		if events[0].Channel != "call" || events[0].Status != model.ReminderCompleted {
			t.Errorf("event = %+v, want call/completed", events[0])
		}
	})

	t.Run("both channels in one diff", func(t *testing.T) {
		events := Transitions(&state, &bothFired)
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
	})

	t.Run("nil states", func(t *testing.T) {
		if events := Transitions(nil, &state); events != nil {
			t.Errorf("got %v for nil prev, want nil", events)
		}
	})
}
