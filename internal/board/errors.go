package board

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the targeted card or comment does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or malformed caller-supplied field. It is
// distinct from ErrNotFound so the transport layer can answer 400 vs 404.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError; exported for the packages
// composing the stores, such as the snapshot importer.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func validationErr(field, reason string) error {
	return NewValidationError(field, reason)
}
