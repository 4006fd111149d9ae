package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/service"
)

// Manager drives the intake wizard over the store. Every mutation persists
// the whole aggregate record immediately.
type Manager struct {
	store service.Store
}

// NewManager creates an intake manager.
func NewManager(store service.Store) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Manager{store: store}, nil
}

// Status returns the current wizard step and the aggregate record.
func (m *Manager) Status(ctx context.Context) (model.IntakeStep, model.IntakeRecord, error) {
	step, err := m.store.GetIntakeStep(ctx)
	if err != nil {
		return model.StepPersonal, model.IntakeRecord{}, err
	}
	record, err := m.store.GetIntake(ctx)
	if err != nil {
		return step, model.IntakeRecord{}, err
	}
	return step, record, nil
}

// SetPersonal replaces the personal-info section.
func (m *Manager) SetPersonal(ctx context.Context, personal model.PersonalInfo) error {
	return m.update(ctx, func(r *model.IntakeRecord) { r.Personal = personal })
}

// SetIncident replaces the incident-details section.
func (m *Manager) SetIncident(ctx context.Context, incident model.IncidentDetails) error {
	return m.update(ctx, func(r *model.IntakeRecord) { r.Incident = incident })
}

// SetMedical replaces the medical-history section.
func (m *Manager) SetMedical(ctx context.Context, medical model.MedicalHistory) error {
	return m.update(ctx, func(r *model.IntakeRecord) { r.Medical = medical })
}

// SetAgreements replaces the agreements section.
func (m *Manager) SetAgreements(ctx context.Context, agreements model.Agreements) error {
	return m.update(ctx, func(r *model.IntakeRecord) { r.Agreements = agreements })
}

// AddUpload attaches a document and returns it with its generated identity.
func (m *Manager) AddUpload(ctx context.Context, fileName, kind string, now time.Time) (model.Upload, error) {
	upload := model.Upload{
		ID:       uuid.NewString(),
		FileName: fileName,
		Kind:     kind,
		AddedAt:  now,
	}
	err := m.update(ctx, func(r *model.IntakeRecord) {
		r.Uploads = append(r.Uploads, upload)
	})
	if err != nil {
		return model.Upload{}, err
	}
	return upload, nil
}

// RemoveUpload detaches a document by identity.
func (m *Manager) RemoveUpload(ctx context.Context, id string) error {
	found := false
	err := m.update(ctx, func(r *model.IntakeRecord) {
		kept := r.Uploads[:0]
		for _, u := range r.Uploads {
			if u.ID == id {
				found = true
				continue
			}
			kept = append(kept, u)
		}
		r.Uploads = kept
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("upload %q: %w", id, common.ErrNotFound)
	}
	return nil
}

// Advance validates the current step and, if it passes, moves the wizard
// forward. Field errors are returned without advancing and without being
// treated as a hard failure. Advancing past review completes the intake.
func (m *Manager) Advance(ctx context.Context, now time.Time) (model.IntakeStep, FieldErrors, error) {
	step, record, err := m.Status(ctx)
	if err != nil {
		return step, nil, err
	}
	if step >= model.StepComplete {
		return step, nil, common.ErrIntakeLocked
	}

	if fieldErrs := ValidateStep(step, record, now); len(fieldErrs) > 0 {
		return step, fieldErrs, nil
	}

	next := step + 1
	if next == model.StepComplete {
		// Submitting review seals the aggregate record.
		record.Agreed = true
		at := now
		record.Agreements.AgreedAt = &at
		if err := m.store.SaveIntake(ctx, record); err != nil {
			return step, nil, err
		}
	}

	if err := m.store.SaveIntakeStep(ctx, next); err != nil {
		return step, nil, err
	}
	return next, nil, nil
}

// Back moves the wizard one step backwards. A completed intake cannot be
// reopened.
func (m *Manager) Back(ctx context.Context) (model.IntakeStep, error) {
	step, err := m.store.GetIntakeStep(ctx)
	if err != nil {
		return step, err
	}
	if step >= model.StepComplete {
		return step, common.ErrIntakeLocked
	}
	if step == model.StepPersonal {
		return step, nil
	}
	prev := step - 1
	if err := m.store.SaveIntakeStep(ctx, prev); err != nil {
		return step, err
	}
	return prev, nil
}

// Complete reports whether the intake has passed review.
func (m *Manager) Complete(ctx context.Context) (bool, error) {
	step, err := m.store.GetIntakeStep(ctx)
	if err != nil {
		return false, err
	}
	return step >= model.StepComplete, nil
}

func (m *Manager) update(ctx context.Context, mutate func(*model.IntakeRecord)) error {
	record, err := m.store.GetIntake(ctx)
	if err != nil {
		return err
	}
	mutate(&record)
	return m.store.SaveIntake(ctx, record)
}
