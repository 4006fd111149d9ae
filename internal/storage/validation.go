// Package storage provides the data persistence layer for the casefile application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/halcyonlegal/casefile/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidStep  = errors.New("invalid intake step")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateStep ensures an intake step index is within the wizard's range.
func validateStep(step model.IntakeStep) error {
	if step < model.StepPersonal || step > model.StepComplete {
		return fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	return nil
}

// validateReminders validates a reminder timeline before persisting it.
func validateReminders(state *model.ReminderState) error {
	if state == nil {
		return fmt.Errorf("%w: reminder state", ErrNilParameter)
	}
	return state.Validate()
}
