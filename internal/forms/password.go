package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/fintrack/internal/api"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Password errors.
var (
	ErrPasswordFieldsRequired = errors.New("all password fields are required")
	ErrPasswordUnchanged      = errors.New("new password must differ from the current password")
	ErrPasswordMismatch       = errors.New("new password and confirmation do not match")
	ErrPasswordTooShort       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordNoUpper        = errors.New("password must contain an uppercase letter")
	ErrPasswordNoLower        = errors.New("password must contain a lowercase letter")
	ErrPasswordNoDigit        = errors.New("password must contain a digit")
	ErrPasswordNoSymbol       = errors.New("password must contain a symbol")
	ErrIncorrectPassword      = errors.New("current password is incorrect")
)

// PasswordChanger verifies the old password and stores the new one.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// ValidatePasswordStrength checks length and character classes. Letter and
// digit classes are ASCII only; any other character counts as a symbol.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	switch {
	case !upper:
		return ErrPasswordNoUpper
	case !lower:
		return ErrPasswordNoLower
	case !digit:
		return ErrPasswordNoDigit
	case !symbol:
		return ErrPasswordNoSymbol
	}
	return nil
}

// PasswordForm is the account password change form.
type PasswordForm struct {
	Old     string
	New     string
	Confirm string
}

// Validate checks the form locally.
func (f PasswordForm) Validate() error {
	if f.Old == "" || f.New == "" || f.Confirm == "" {
		return ErrPasswordFieldsRequired
	}
	if f.Old == f.New {
		return ErrPasswordUnchanged
	}
	if f.New != f.Confirm {
		return ErrPasswordMismatch
	}
	return ValidatePasswordStrength(f.New)
}

// Submit validates and changes the password. A rejected old password yields
// ErrIncorrectPassword.
func (f PasswordForm) Submit(ctx context.Context, changer PasswordChanger) error {
	if err := f.Validate(); err != nil {
		return err
	}
	err := changer.ChangePassword(ctx, f.Old, f.New)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		return &SubmitError{Err: ErrIncorrectPassword, Message: "Current password is incorrect"}
	}
	msg := api.ServerMessage(err)
	if msg == "" {
		msg = "Could not change password"
	}
	return &SubmitError{Err: err, Message: msg}
}
