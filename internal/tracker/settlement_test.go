package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/model"
)

func TestSettlement_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	settlement, err := NewSettlement(store)
	if err != nil {
		t.Fatalf("NewSettlement() failed: %v", err)
	}

	if err := settlement.SetGross(ctx, -100); err == nil {
		t.Error("SetGross() with negative amount should fail")
	}
	if err := settlement.SetGross(ctx, 90000); err != nil {
		t.Fatalf("SetGross() failed: %v", err)
	}
	if err := settlement.MarkReleaseSigned(ctx, testNow); err != nil {
		t.Fatalf("MarkReleaseSigned() failed: %v", err)
	}
	if err := settlement.MarkFundsReceived(ctx, testNow.AddDate(0, 0, 12)); err != nil {
		t.Fatalf("MarkFundsReceived() failed: %v", err)
	}

	state, _, err := settlement.Get(ctx)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if state.GrossAmount != 90000 {
		t.Errorf("GrossAmount = %v, want 90000", state.GrossAmount)
	}
	if !state.ReleaseSigned || state.ReleaseSignedAt == nil {
		t.Error("release signature not recorded")
	}
	if !state.FundsReceived || state.FundsReceivedAt == nil {
		t.Error("funds arrival not recorded")
	}
}

func TestSettlement_Payees(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	settlement, err := NewSettlement(store)
	if err != nil {
		t.Fatalf("NewSettlement() failed: %v", err)
	}

	if _, err := settlement.AddPayee(ctx, "", "lien", 100); err == nil {
		t.Error("AddPayee() with empty name should fail")
	}
	if _, err := settlement.AddPayee(ctx, "Mercy General", "lien", -1); err == nil {
		t.Error("AddPayee() with negative amount should fail")
	}

	lien, err := settlement.AddPayee(ctx, "Mercy General", "lien", 12000)
	if err != nil {
		t.Fatalf("AddPayee() failed: %v", err)
	}
	if _, err := settlement.AddPayee(ctx, "Halcyon Legal", "fee", 30000); err != nil {
		t.Fatalf("AddPayee() failed: %v", err)
	}

	_, payees, err := settlement.Get(ctx)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if len(payees) != 2 {
		t.Fatalf("got %d payees, want 2", len(payees))
	}

	if err := settlement.RemovePayee(ctx, lien.ID); err != nil {
		t.Fatalf("RemovePayee() failed: %v", err)
	}
	if err := settlement.RemovePayee(ctx, lien.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("RemovePayee() repeated = %v, want ErrNotFound", err)
	}
}

func TestSettlementStats(t *testing.T) {
	tests := []struct {
		name        string
		state       model.SettlementState
		payees      []model.SettlementPayee
		wantNet     float64
		wantPercent int
	}{
		{
			name:        "no settlement yet",
			wantNet:     0,
			wantPercent: 0,
		},
		{
			name:  "typical disbursement",
			state: model.SettlementState{GrossAmount: 90000},
			payees: []model.SettlementPayee{
				{Name: "Halcyon Legal", Kind: "fee", Amount: 30000},
				{Name: "Mercy General", Kind: "lien", Amount: 12000},
			},
			wantNet:     48000,
			wantPercent: 47,
		},
		{
			name:        "no payees",
			state:       model.SettlementState{GrossAmount: 50000},
			wantNet:     50000,
			wantPercent: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := SettlementStats(tt.state, tt.payees)
			if stats.NetToClient != tt.wantNet {
				t.Errorf("NetToClient = %v, want %v", stats.NetToClient, tt.wantNet)
			}
			if stats.PercentOfGross != tt.wantPercent {
				t.Errorf("PercentOfGross = %d, want %d", stats.PercentOfGross, tt.wantPercent)
			}
		})
	}
}

func TestLitigation(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	litigation, err := NewLitigation(store)
	if err != nil {
		t.Fatalf("NewLitigation() failed: %v", err)
	}

	state, err := litigation.Get(ctx)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if state.Referred {
		t.Error("fresh case should not be referred")
	}
	if days := DaysSinceReferral(state, testNow); days != 0 {
		t.Errorf("DaysSinceReferral() before referral = %d, want 0", days)
	}

	if err := litigation.Refer(ctx, "Briggs & Santo LLP", "adjuster stopped responding", testNow); err != nil {
		t.Fatalf("Refer() failed: %v", err)
	}

	state, err = litigation.Get(ctx)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !state.Referred || state.ReferredAt == nil {
		t.Error("referral not recorded")
	}
	if state.FirmName != "Briggs & Santo LLP" {
		t.Errorf("FirmName = %q", state.FirmName)
	}

	if days := DaysSinceReferral(state, testNow.AddDate(0, 0, 10)); days != 10 {
		t.Errorf("DaysSinceReferral() = %d, want 10", days)
	}
}
