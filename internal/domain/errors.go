package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals malformed client input (filters, viewport, category).
	ErrValidation = errors.New("validation failed")
	// ErrApplication signals a store or index failure during query execution.
	ErrApplication = errors.New("application error")
	// ErrUnsupportedCategory signals a category outside the five known listing types.
	ErrUnsupportedCategory = errors.New("unsupported category")
)

// ValidationError describes which input was rejected and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for the given input field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ApplicationError wraps an execution failure with the category and query it happened on.
type ApplicationError struct {
	Op       string
	Category string
	Query    string
	Err      error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s %s (category=%s query=%q): %v",
		ErrApplication.Error(), e.Op, e.Category, e.Query, e.Err)
}

// Unwrap exposes both the ErrApplication sentinel and the underlying cause.
func (e *ApplicationError) Unwrap() []error { return []error{ErrApplication, e.Err} }

// NewApplicationError wraps err with execution context.
func NewApplicationError(op, category, query string, err error) error {
	return &ApplicationError{Op: op, Category: category, Query: query, Err: err}
}
