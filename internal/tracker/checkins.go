package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/service"
)

// DefaultCheckInCadenceDays is how often the client is expected to check in.
const DefaultCheckInCadenceDays = 14

// CheckIns manages periodic client status entries.
type CheckIns struct {
	store       service.Store
	cadenceDays int
}

// NewCheckIns creates a check-in manager with the given cadence.
func NewCheckIns(store service.Store, cadenceDays int) (*CheckIns, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cadenceDays <= 0 {
		cadenceDays = DefaultCheckInCadenceDays
	}
	return &CheckIns{store: store, cadenceDays: cadenceDays}, nil
}

// List returns all check-in entries.
func (c *CheckIns) List(ctx context.Context) ([]model.CheckIn, error) {
	return c.store.GetCheckIns(ctx)
}

// Add records a new check-in.
func (c *CheckIns) Add(ctx context.Context, now time.Time, painLevel int, treated bool, note string) (model.CheckIn, error) {
	if painLevel < 0 || painLevel > 10 {
		return model.CheckIn{}, fmt.Errorf("pain level must be between 0 and 10")
	}

	entry := model.CheckIn{
		ID:        uuid.NewString(),
		Date:      now,
		PainLevel: painLevel,
		Treated:   treated,
		Note:      note,
	}

	checkIns, err := c.store.GetCheckIns(ctx)
	if err != nil {
		return model.CheckIn{}, err
	}
	checkIns = append(checkIns, entry)
	if err := c.store.SaveCheckIns(ctx, checkIns); err != nil {
		return model.CheckIn{}, err
	}
	return entry, nil
}

// Remove deletes a check-in by identity.
func (c *CheckIns) Remove(ctx context.Context, id string) error {
	checkIns, err := c.store.GetCheckIns(ctx)
	if err != nil {
		return err
	}

	kept := checkIns[:0]
	found := false
	for _, entry := range checkIns {
		if entry.ID == id {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return fmt.Errorf("check-in %q: %w", id, common.ErrNotFound)
	}
	return c.store.SaveCheckIns(ctx, kept)
}

// Stats derives the cadence summary. No check-ins yet yields zeroes with
// Overdue false; the first check-in is prompted elsewhere.
func (c *CheckIns) Stats(checkIns []model.CheckIn, now time.Time) service.CheckInStats {
	stats := service.CheckInStats{Total: len(checkIns)}
	if len(checkIns) == 0 {
		return stats
	}

	for _, entry := range checkIns {
		if entry.Date.After(stats.LastDate) {
			stats.LastDate = entry.Date
		}
	}

	stats.DaysSinceLast = int(now.Sub(stats.LastDate).Hours() / 24)
	stats.NextDue = stats.LastDate.AddDate(0, 0, c.cadenceDays)
	stats.Overdue = now.After(stats.NextDue)
	return stats
}
