package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/model"
)

func TestCheckIns_Add(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	checkIns, err := NewCheckIns(store, 14)
	if err != nil {
		t.Fatalf("NewCheckIns() failed: %v", err)
	}

	entry, err := checkIns.Add(ctx, testNow, 6, true, "neck still stiff")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("check-in should receive an identity")
	}

	for _, level := range []int{-1, 11} {
		if _, err := checkIns.Add(ctx, testNow, level, false, ""); err == nil {
			t.Errorf("Add() with pain level %d should fail", level)
		}
	}

	list, err := checkIns.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d check-ins, want 1", len(list))
	}

	if err := checkIns.Remove(ctx, entry.ID); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if err := checkIns.Remove(ctx, entry.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Remove() repeated = %v, want ErrNotFound", err)
	}
}

func TestCheckIns_Stats(t *testing.T) {
	store := createTestStore(t)
	checkIns, err := NewCheckIns(store, 14)
	if err != nil {
		t.Fatalf("NewCheckIns() failed: %v", err)
	}

	t.Run("no entries", func(t *testing.T) {
		stats := checkIns.Stats(nil, testNow)
		if stats.Total != 0 || stats.Overdue {
			t.Errorf("stats for empty history = %+v, want zeroes", stats)
		}
	})

	t.Run("recent entry within cadence", func(t *testing.T) {
		entries := []model.CheckIn{
			{ID: "c1", Date: testNow.AddDate(0, 0, -20), PainLevel: 7},
			{ID: "c2", Date: testNow.AddDate(0, 0, -5), PainLevel: 4},
		}
		stats := checkIns.Stats(entries, testNow)
		if stats.DaysSinceLast != 5 {
			t.Errorf("DaysSinceLast = %d, want 5", stats.DaysSinceLast)
		}
		if stats.Overdue {
			t.Error("entry five days ago should not be overdue on a 14-day cadence")
		}
		wantDue := testNow.AddDate(0, 0, -5).AddDate(0, 0, 14)
		if !stats.NextDue.Equal(wantDue) {
			t.Errorf("NextDue = %v, want %v", stats.NextDue, wantDue)
		}
	})

	t.Run("stale entry is overdue", func(t *testing.T) {
		entries := []model.CheckIn{
			{ID: "c1", Date: testNow.AddDate(0, 0, -30), PainLevel: 7},
		}
		stats := checkIns.Stats(entries, testNow)
		if stats.DaysSinceLast != 30 {
			t.Errorf("DaysSinceLast = %d, want 30", stats.DaysSinceLast)
		}
		if !stats.Overdue {
			t.Error("entry thirty days ago should be overdue on a 14-day cadence")
		}
	})
}
