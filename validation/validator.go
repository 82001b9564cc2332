package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/speakeralign/errors"
)

// FieldError is one failed check, keyed by the wire or config name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors renders as a single INVALID_INPUT AppError.
type FieldErrors []FieldError

// AppError joins the messages and attaches the list under "fields". It
// returns nil for an empty list.
func (fe FieldErrors) AppError() *errors.AppError {
	if len(fe) == 0 {
		return nil
	}
	parts := make([]string, len(fe))
	for i, e := range fe {
		parts[i] = e.Field + ": " + e.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", []FieldError(fe))
}

// Validator chains checks that struct tags cannot express, such as
// cross-field config rules.
type Validator struct {
	failed FieldErrors
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Fields returns the failed checks in the order they ran.
func (v *Validator) Fields() FieldErrors {
	return v.failed
}

// Err returns the failures as an AppError, or nil.
func (v *Validator) Err() error {
	if appErr := v.failed.AppError(); appErr != nil {
		return appErr
	}
	return nil
}

// Custom records message for field when ok is false. The other checks are
// built on it.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.failed = append(v.failed, FieldError{Field: field, Message: message})
	}
	return v
}

// Required checks that a string is not blank.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(strings.TrimSpace(value) != "", field, "is required")
}

// Range checks that an int lies within [lo, hi].
func (v *Validator) Range(field string, value, lo, hi int) *Validator {
	return v.Custom(value >= lo && value <= hi, field, fmt.Sprintf("must be between %d and %d", lo, hi))
}

// Min checks that an int is at least lo.
func (v *Validator) Min(field string, value, lo int) *Validator {
	return v.Custom(value >= lo, field, fmt.Sprintf("must be at least %d", lo))
}

// OneOf checks that a non-empty value is one of allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	return v.Custom(value == "" || slices.Contains(allowed, value), field,
		"must be one of: "+strings.Join(allowed, ", "))
}
