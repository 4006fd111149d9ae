// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"
)

// ReminderStatus indicates where a reminder channel is in its lifecycle.
type ReminderStatus string

// Reminder status constants.
const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderCompleted ReminderStatus = "completed"
	ReminderCanceled  ReminderStatus = "canceled"
	ReminderFailed    ReminderStatus = "failed"
)

// Terminal reports whether the status can no longer advance.
func (s ReminderStatus) Terminal() bool {
	switch s {
	case ReminderSent, ReminderCompleted, ReminderCanceled, ReminderFailed:
		return true
	case ReminderPending:
		return false
	default:
		return false
	}
}

// SMSReminder tracks the text-message stage of the outreach timeline.
type SMSReminder struct {
	ScheduledAt time.Time      `json:"scheduledAt"`
	SentAt      *time.Time     `json:"sentAt,omitempty"`
	Status      ReminderStatus `json:"status"`
}

// CallReminder tracks the phone-call stage of the outreach timeline.
type CallReminder struct {
	ScheduledAt time.Time      `json:"scheduledAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Status      ReminderStatus `json:"status"`
}

// ReminderState is the scheduled two-stage outreach for one incident:
// an SMS followed by a phone call, each advanced lazily against the clock.
type ReminderState struct {
	CreatedAt   time.Time    `json:"createdAt"`
	LastUpdated time.Time    `json:"lastUpdated"`
	CanceledAt  *time.Time   `json:"canceledAt,omitempty"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	SMS         SMSReminder  `json:"sms"`
	Call        CallReminder `json:"call"`
	Enabled     bool         `json:"enabled"`
}

// Active reports whether the timeline can still advance on its own.
func (r *ReminderState) Active() bool {
	return r.Enabled && (r.SMS.Status == ReminderPending || r.Call.Status == ReminderPending)
}

// Validate ensures the timeline is internally consistent.
func (r *ReminderState) Validate() error {
	if r.CreatedAt.IsZero() {
		return fmt.Errorf("reminder state missing creation time")
	}
	if !r.SMS.ScheduledAt.Before(r.Call.ScheduledAt) {
		return fmt.Errorf("sms must be scheduled before call: sms=%v call=%v",
			r.SMS.ScheduledAt, r.Call.ScheduledAt)
	}
	return nil
}
