// Package forms validates user input for create/update operations and
// submits it through the API.
package forms

import (
	"errors"
	"fmt"
)

// Field validation errors.
var (
	ErrRequired      = errors.New("is required")
	ErrInvalidNumber = errors.New("must be a number")
	ErrNegative      = errors.New("must not be negative")
	ErrUnknownChoice = errors.New("does not match any option")
	ErrInvalidDate   = errors.New("must be a date in YYYY-MM-DD format")
)

// FieldError reports an invalid field. The form stays open.
type FieldError struct {
	Err   error
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}

// SubmitError wraps a failed save. Message is safe to show inline.
type SubmitError struct {
	Err     error
	Message string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Message returns the text to display for a validation or submit error.
func Message(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	var se *SubmitError
	if errors.As(err, &se) {
		return se.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
