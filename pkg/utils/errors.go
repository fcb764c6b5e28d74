package utils

import (
	"errors"
	"fmt"
)

// Error kinds shared by repositories, services and handlers.
// Wrap them with fmt.Errorf("...: %w", ErrX) and match with errors.Is.
var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrConflict            = errors.New("already exists")
	ErrValidation          = errors.New("validation failed")
	ErrDuplicate           = errors.New("duplicate")
	ErrNotFoundOrForbidden = errors.New("not found")
	ErrUpstream            = errors.New("upstream provider error")
)

// ValidationError carries per-field messages alongside ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, FormatValidationErrors(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validate runs struct validation and returns a *ValidationError when it fails.
func Validate(data any) error {
	if errs := ValidateStruct(data); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// ValidationFields extracts the per-field map, nil if err is not a validation error.
func ValidationFields(err error) map[string]string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
