// Package intake implements the sequential case-intake wizard: personal
// info, incident details, medical history, document uploads, agreements,
// review. Each step is gated by declarative field rules.
package intake

import (
	"fmt"
	"strings"
	"time"

	"github.com/halcyonlegal/casefile/internal/common"
	"github.com/halcyonlegal/casefile/internal/model"
)

// Field patterns. Loose on purpose: intake should not reject a reachable
// client over formatting.
const (
	emailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	phonePattern = `^\+?[0-9][0-9().\-\s]{5,}$`
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
)

// FieldError is a validation failure local to one field. It never blocks
// validation of other fields.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors collects every failing field for a step.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// fieldRule checks one field of the intake record. An empty message means
// the field passed.
type fieldRule struct {
	check func(r model.IntakeRecord, now time.Time) string
	field string
}

func required(field string, get func(model.IntakeRecord) string) fieldRule {
	return fieldRule{
		field: field,
		check: func(r model.IntakeRecord, _ time.Time) string {
			if strings.TrimSpace(get(r)) == "" {
				return "is required"
			}
			return ""
		},
	}
}

func matches(field, pattern, message string, get func(model.IntakeRecord) string) fieldRule {
	return fieldRule{
		field: field,
		check: func(r model.IntakeRecord, _ time.Time) string {
			value := strings.TrimSpace(get(r))
			if value == "" {
				return "is required"
			}
			ok, err := common.MatchRegex(pattern, value)
			if err != nil || !ok {
				return message
			}
			return ""
		},
	}
}

var stepRules = map[model.IntakeStep][]fieldRule{
	model.StepPersonal: {
		required("firstName", func(r model.IntakeRecord) string { return r.Personal.FirstName }),
		required("lastName", func(r model.IntakeRecord) string { return r.Personal.LastName }),
		matches("email", emailPattern, "must be a valid email address",
			func(r model.IntakeRecord) string { return r.Personal.Email }),
		matches("phone", phonePattern, "must be a valid phone number",
			func(r model.IntakeRecord) string { return r.Personal.Phone }),
	},
	model.StepIncident: {
		matches("incidentDate", datePattern, "must be a date in YYYY-MM-DD form",
			func(r model.IntakeRecord) string { return r.Incident.Date }),
		{
			field: "incidentDate",
			check: func(r model.IntakeRecord, now time.Time) string {
				date, err := time.Parse("2006-01-02", strings.TrimSpace(r.Incident.Date))
				if err != nil {
					// The pattern rule already reports the format problem.
					return ""
				}
				if date.After(now) {
					return "cannot be in the future"
				}
				return ""
			},
		},
		required("location", func(r model.IntakeRecord) string { return r.Incident.Location }),
		required("description", func(r model.IntakeRecord) string { return r.Incident.Description }),
	},
	model.StepMedical: {
		// All medical fields are free-form and optional.
	},
	model.StepUploads: {
		// Uploads are optional at intake; providers can supply records later.
	},
	model.StepAgreements: {
		{
			field: "agreements",
			check: func(r model.IntakeRecord, _ time.Time) string {
				if !r.Agreements.Accepted() {
					return "retainer, HIPAA and contingency agreements must all be accepted"
				}
				return ""
			},
		},
	},
	model.StepReview: {},
}

// ValidateStep runs every rule for the step and returns all failing fields.
// A nil result means the step is complete.
func ValidateStep(step model.IntakeStep, record model.IntakeRecord, now time.Time) FieldErrors {
	var errs FieldErrors
	for _, rule := range stepRules[step] {
		if msg := rule.check(record, now); msg != "" {
			errs = append(errs, FieldError{Field: rule.field, Message: msg})
		}
	}
	return errs
}
