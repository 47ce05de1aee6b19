package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a booking validation failure
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeCommit indicates a persistence failure while committing a booking
	ErrorTypeCommit ErrorType = "COMMIT"

	// ErrorTypeSubscription indicates a lost or failed change-feed subscription
	ErrorTypeSubscription ErrorType = "SUBSCRIPTION"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// ValidationReason is the machine-readable reason attached to validation
// errors, so callers can re-prompt the user with updated availability.
type ValidationReason string

const (
	ReasonOutsideHours      ValidationReason = "OUTSIDE_HOURS"
	ReasonStaffHoliday      ValidationReason = "STAFF_HOLIDAY"
	ReasonSlotFull          ValidationReason = "SLOT_FULL"
	ReasonOverlap           ValidationReason = "OVERLAP"
	ReasonUnknownStaff      ValidationReason = "UNKNOWN_STAFF"
	ReasonUnknownService    ValidationReason = "UNKNOWN_SERVICE"
	ReasonInvalidTransition ValidationReason = "INVALID_TRANSITION"
	ReasonOutsideHorizon    ValidationReason = "OUTSIDE_HORIZON"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Reason  ValidationReason
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s/%s: %s: %v", e.Type, e.Reason, e.Message, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s/%s: %s", e.Type, e.Reason, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error with a reason code
func NewValidationError(reason ValidationReason, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Reason:  reason,
		Message: message,
	}
}

// NewCommitError wraps a persistence failure. Commit errors are surfaced
// verbatim and never retried internally; the caller owns retry policy.
func NewCommitError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCommit,
		Message: message,
		Err:     err,
	}
}

// NewSubscriptionError wraps a change-feed connection failure
func NewSubscriptionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSubscription,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// IsValidation reports whether err is a validation error, optionally
// matching a specific reason (empty reason matches any)
func IsValidation(err error, reason ValidationReason) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Type == ErrorTypeValidation && (reason == "" || appErr.Reason == reason)
}

// TypeOf returns the error type of err, or ErrorTypeInternal for plain errors
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}
