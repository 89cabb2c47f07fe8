package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound        = errors.New("artifact not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrStore           = errors.New("store error")
	ErrExtraction      = errors.New("extraction failed")
	ErrImageUnreadable = errors.New("image unreadable")

	// ErrRecordNotSaved marks the terminal state where both extractions
	// succeeded but the store write failed. Distinct from ErrExtraction so
	// callers can tell the operator the scan itself was fine.
	ErrRecordNotSaved = errors.New("extraction succeeded but record not saved")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
