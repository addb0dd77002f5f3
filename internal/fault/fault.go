package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for coarse matching with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

// ValidationError blocks an operation. Violations enumerates every problem
// found, not just the first, so a terminal can show the full list at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidation(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// ConflictError blocks an operation that would violate a uniqueness rule,
// e.g. a second open session on a table or a duplicate sale deduction.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	if e.Resource == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func NewConflict(resource, reason string) *ConflictError {
	return &ConflictError{Resource: resource, Reason: reason}
}

// NotFoundError reports a missing reference. Required distinguishes a
// reference that blocks the operation (product) from one that is cleared
// with a warning (customer, table).
type NotFoundError struct {
	Resource string
	ID       string
	Required bool
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id, Required: true}
}

func NewOptionalNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflict reports whether err carries a ConflictError.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Violations extracts the violation list from err, or a single-element list
// with the error message when err is not a ValidationError.
func Violations(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations
	}
	return []string{err.Error()}
}
