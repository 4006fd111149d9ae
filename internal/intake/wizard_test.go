package intake

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/storage"
)

func createTestManager(t *testing.T) *Manager {
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

	mgr, err := NewManager(store)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	return mgr
}

// fillStep makes the given step valid on the stored record.
func fillStep(t *testing.T, ctx context.Context, mgr *Manager, step model.IntakeStep) {
	t.Helper()
	var err error
	switch step {
	case model.StepPersonal:
		err = mgr.SetPersonal(ctx, validPersonal())
	case model.StepIncident:
		err = mgr.SetIncident(ctx, validIncident())
	case model.StepAgreements:
		err = mgr.SetAgreements(ctx, model.Agreements{Retainer: true, HIPAA: true, Contingency: true})
	}
	if err != nil {
		t.Fatalf("Failed to fill step %s: %v", step, err)
	}
}

func completeIntake(t *testing.T, ctx context.Context, mgr *Manager) {
	t.Helper()
	for step := model.StepPersonal; step < model.StepComplete; step++ {
		fillStep(t, ctx, mgr, step)
		next, fieldErrs, err := mgr.Advance(ctx, testNow)
		if err != nil {
			t.Fatalf("Advance() from %s failed: %v", step, err)
		}
		if len(fieldErrs) > 0 {
			t.Fatalf("Advance() from %s blocked: %v", step, fieldErrs)
		}
		if next != step+1 {
			t.Fatalf("Advance() from %s landed on %s", step, next)
		}
	}
}

func TestManager_Advance(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh wizard starts at personal", func(t *testing.T) {
		mgr := createTestManager(t)
		step, _, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() failed: %v", err)
		}
		if step != model.StepPersonal {
			t.Errorf("step = %s, want personal", step)
		}
	})

	t.Run("invalid step stays put with field errors", func(t *testing.T) {
		mgr := createTestManager(t)
		step, fieldErrs, err := mgr.Advance(ctx, testNow)
		if err != nil {
			t.Fatalf("Advance() failed: %v", err)
		}
		if step != model.StepPersonal {
			t.Errorf("step = %s, want personal", step)
		}
		if len(fieldErrs) == 0 {
			t.Error("expected field errors for an empty personal step")
		}
	})

	t.Run("full walk seals the record", func(t *testing.T) {
		mgr := createTestManager(t)
		completeIntake(t, ctx, mgr)

		done, err := mgr.Complete(ctx)
		if err != nil {
			t.Fatalf("Complete() failed: %v", err)
		}
		if !done {
			t.Error("intake should be complete after walking every step")
		}

		_, record, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() failed: %v", err)
		}
		if !record.Agreed {
			t.Error("completed record should be marked agreed")
		}
		if record.Agreements.AgreedAt == nil {
			t.Error("completed record should carry the agreement time")
		}
	})

	t.Run("completed intake is locked", func(t *testing.T) {
		mgr := createTestManager(t)
		completeIntake(t, ctx, mgr)

		if _, _, err := mgr.Advance(ctx, testNow); !errors.Is(err, common.ErrIntakeLocked) {
			t.Errorf("Advance() after completion = %v, want ErrIntakeLocked", err)
		}
		if _, err := mgr.Back(ctx); !errors.Is(err, common.ErrIntakeLocked) {
			t.Errorf("Back() after completion = %v, want ErrIntakeLocked", err)
		}
	})
}

func TestManager_Back(t *testing.T) {
	ctx := context.Background()
	mgr := createTestManager(t)

	fillStep(t, ctx, mgr, model.StepPersonal)
	if _, _, err := mgr.Advance(ctx, testNow); err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}

	step, err := mgr.Back(ctx)
	if err != nil {
		t.Fatalf("Back() failed: %v", err)
	}
	if step != model.StepPersonal {
		t.Errorf("step = %s, want personal", step)
	}

	// Backing off the first step stays on it
	step, err = mgr.Back(ctx)
	if err != nil {
		t.Fatalf("Back() at first step failed: %v", err)
	}
	if step != model.StepPersonal {
		t.Errorf("step = %s, want personal", step)
	}
}

func TestManager_Uploads(t *testing.T) {
	ctx := context.Background()
	mgr := createTestManager(t)

	first, err := mgr.AddUpload(ctx, "er-bill.pdf", "bill", testNow)
	if err != nil {
		t.Fatalf("AddUpload() failed: %v", err)
	}
	if first.ID == "" {
		t.Fatal("upload should receive an identity")
	}
	second, err := mgr.AddUpload(ctx, "mri-report.pdf", "record", testNow)
	if err != nil {
		t.Fatalf("AddUpload() failed: %v", err)
	}
	if second.ID == first.ID {
		t.Error("uploads should get distinct identities")
	}

	_, record, err := mgr.Status(ctx)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if len(record.Uploads) != 2 {
		t.Fatalf("got %d uploads, want 2", len(record.Uploads))
	}

	if err := mgr.RemoveUpload(ctx, first.ID); err != nil {
		t.Fatalf("RemoveUpload() failed: %v", err)
	}
	_, record, err = mgr.Status(ctx)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if len(record.Uploads) != 1 || record.Uploads[0].ID != second.ID {
		t.Errorf("uploads after removal = %+v, want just %s", record.Uploads, second.ID)
	}

	if err := mgr.RemoveUpload(ctx, "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("RemoveUpload() of unknown id = %v, want ErrNotFound", err)
	}
}
