// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Validation errors.
	ErrNoDatasetsSelected = errors.New("no datasets selected")
	ErrEmptyToken         = errors.New("empty API token")
	ErrInvalidStorageType = errors.New("invalid storage type")
	ErrInvalidDataset     = errors.New("invalid dataset")

	// Lookup errors.
	ErrDatasetNotFound = errors.New("dataset not found")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the message meant for the user if err carries one,
// and err's own text otherwise.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

// IsValidationError reports whether err is a user-input validation failure.
// Validation failures abort the requested operation without changing state.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoDatasetsSelected) ||
		errors.Is(err, ErrEmptyToken) ||
		errors.Is(err, ErrInvalidStorageType) ||
		errors.Is(err, ErrInvalidDataset)
}
