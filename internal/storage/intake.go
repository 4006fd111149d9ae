package storage

import (
	"context"

	"github.com/halcyonlegal/casefile/internal/model"
)

// GetIntake retrieves the intake wizard aggregate record.
func (s *SQLiteStore) GetIntake(ctx context.Context) (model.IntakeRecord, error) {
	if err := validateContext(ctx); err != nil {
		return model.IntakeRecord{}, err
	}
	return loadRecord[model.IntakeRecord](ctx, s, keyIntakeState)
}

// SaveIntake persists the intake wizard aggregate record.
func (s *SQLiteStore) SaveIntake(ctx context.Context, record model.IntakeRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return storeRecord(ctx, s, keyIntakeState, record)
}

// GetIntakeStep retrieves the persisted wizard progress counter.
// An absent or malformed counter reads as the first step.
func (s *SQLiteStore) GetIntakeStep(ctx context.Context) (model.IntakeStep, error) {
	if err := validateContext(ctx); err != nil {
		return model.StepPersonal, err
	}
	step, err := loadRecord[int](ctx, s, keyIntakeStep)
	if err != nil {
		return model.StepPersonal, err
	}
	if validateStep(model.IntakeStep(step)) != nil {
		return model.StepPersonal, nil
	}
	return model.IntakeStep(step), nil
}

// SaveIntakeStep persists the wizard progress counter.
func (s *SQLiteStore) SaveIntakeStep(ctx context.Context, step model.IntakeStep) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateStep(step); err != nil {
		return err
	}
	return storeRecord(ctx, s, keyIntakeStep, int(step))
}
