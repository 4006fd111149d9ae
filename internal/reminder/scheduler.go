// Package reminder models the two-stage incident outreach timeline: a text
// message followed by a phone call, each advanced lazily against the clock.
// Nothing fires at the scheduled instant; state moves forward the next time
// anything materializes it.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/service"
)

// Default channel delays, used when no configuration overrides them.
const (
	DefaultSMSDelay  = 1 * time.Hour
	DefaultCallDelay = 24 * time.Hour
)

// CancelReason selects the terminal status applied by Cancel.
type CancelReason string

// Cancel reasons.
const (
	ReasonCanceled  CancelReason = "canceled"
	ReasonCompleted CancelReason = "completed"
)

// Event records a channel transition observed between two timeline states.
type Event struct {
	At      time.Time
	Channel string
	Status  model.ReminderStatus
}

// Scheduler creates and advances the reminder timeline. Time is always
// passed in by the caller, never read from the wall clock internally.
type Scheduler struct {
	store     service.Store
	smsDelay  time.Duration
	callDelay time.Duration
}

// NewScheduler creates a scheduler with the given channel delays.
func NewScheduler(store service.Store, smsDelay, callDelay time.Duration) (*Scheduler, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if smsDelay <= 0 {
		smsDelay = DefaultSMSDelay
	}
	if callDelay <= 0 {
		callDelay = DefaultCallDelay
	}
	if smsDelay >= callDelay {
		return nil, fmt.Errorf("sms delay %v must be shorter than call delay %v", smsDelay, callDelay)
	}
	return &Scheduler{
		store:     store,
		smsDelay:  smsDelay,
		callDelay: callDelay,
	}, nil
}

// EnsureScheduled creates the timeline if none exists, or returns the
// existing one in its time-advanced form. Idempotent while pending.
func (s *Scheduler) EnsureScheduled(ctx context.Context, now time.Time) (*model.ReminderState, error) {
	state, err := s.store.GetReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminder timeline: %w", err)
	}

	if state == nil {
		created := &model.ReminderState{
			CreatedAt:   now,
			LastUpdated: now,
			Enabled:     true,
			SMS: model.SMSReminder{
				ScheduledAt: now.Add(s.smsDelay),
				Status:      model.ReminderPending,
			},
			Call: model.CallReminder{
				ScheduledAt: now.Add(s.callDelay),
				Status:      model.ReminderPending,
			},
		}
		if err := s.store.SaveReminders(ctx, created); err != nil {
			return nil, fmt.Errorf("failed to save reminder timeline: %w", err)
		}
		return created, nil
	}

	return s.advanceAndPersist(ctx, state, now)
}

// Materialize advances the stored timeline against now and persists any
// change. Returns nil when no timeline exists; that means reminders were
// never configured, not an error. Safe to call repeatedly for the same
// elapsed interval.
func (s *Scheduler) Materialize(ctx context.Context, now time.Time) (*model.ReminderState, error) {
	state, err := s.store.GetReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminder timeline: %w", err)
	}
	if state == nil {
		return nil, nil
	}
	return s.advanceAndPersist(ctx, state, now)
}

// Cancel disables the timeline and force-sets both channel statuses to the
// reason, regardless of their current status. This is a hard override, an
// escape hatch rather than a normal lifecycle step. A missing timeline is
// a no-op.
func (s *Scheduler) Cancel(ctx context.Context, reason CancelReason, now time.Time) (*model.ReminderState, error) {
	var status model.ReminderStatus
	switch reason {
	case ReasonCanceled:
		status = model.ReminderCanceled
	case ReasonCompleted:
		status = model.ReminderCompleted
	default:
		return nil, fmt.Errorf("invalid cancel reason: %q", reason)
	}

	state, err := s.store.GetReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminder timeline: %w", err)
	}
	if state == nil {
		return nil, nil
	}

	state.Enabled = false
	state.SMS.Status = status
	state.Call.Status = status
	switch reason {
	case ReasonCanceled:
		state.CanceledAt = &now
	case ReasonCompleted:
		state.CompletedAt = &now
	}
	state.LastUpdated = now

	if err := s.store.SaveReminders(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save reminder timeline: %w", err)
	}
	return state, nil
}

func (s *Scheduler) advanceAndPersist(ctx context.Context, state *model.ReminderState, now time.Time) (*model.ReminderState, error) {
	next, changed := Advance(*state, now)
	if changed {
		if err := s.store.SaveReminders(ctx, &next); err != nil {
			return nil, fmt.Errorf("failed to save reminder timeline: %w", err)
		}
	}
	return &next, nil
}

// Advance applies the transition rule to each channel independently: while
// the timeline is enabled and a channel is pending with its scheduled time
// reached, the sms channel moves to sent and the call channel to completed.
// Statuses never move backward; re-advancing a fired channel is a no-op.
func Advance(state model.ReminderState, now time.Time) (model.ReminderState, bool) {
	if !state.Enabled {
		return state, false
	}

	changed := false

	if state.SMS.Status == model.ReminderPending && !now.Before(state.SMS.ScheduledAt) {
		at := now
		state.SMS.Status = model.ReminderSent
		state.SMS.SentAt = &at
		changed = true
	}

	if state.Call.Status == model.ReminderPending && !now.Before(state.Call.ScheduledAt) {
		at := now
		state.Call.Status = model.ReminderCompleted
		state.Call.CompletedAt = &at
		changed = true
	}

	if changed {
		state.LastUpdated = now
	}

	return state, changed
}

// Transitions diffs two materialized states and reports each channel that
// fired in between. The scheduler emits no events itself; consumers call
// this to notify exactly once per transition.
func Transitions(prev, next *model.ReminderState) []Event {
	if prev == nil || next == nil {
		return nil
	}

	var events []Event

	if prev.SMS.Status == model.ReminderPending && next.SMS.Status == model.ReminderSent {
		at := next.LastUpdated
		if next.SMS.SentAt != nil {
			at = *next.SMS.SentAt
		}
		events = append(events, Event{Channel: "sms", Status: next.SMS.Status, At: at})
	}

	if prev.Call.Status == model.ReminderPending && next.Call.Status == model.ReminderCompleted {
		at := next.LastUpdated
		if next.Call.CompletedAt != nil {
			at = *next.Call.CompletedAt
		}
		events = append(events, Event{Channel: "call", Status: next.Call.Status, At: at})
	}

	return events
}
