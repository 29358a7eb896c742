// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Configuration errors.
	ErrMissingConfig     = errors.New("missing configuration")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrMissingCredential = fmt.Errorf("%w: no text-generation credential configured", ErrMissingConfig)

	// Request errors.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrEmptyPrompt         = errors.New("prompt is empty")
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

// ServiceError is a failure talking to the text-generation service.
// StatusCode is zero when the request never produced an HTTP response.
type ServiceError struct {
	Err        error
	Op         string
	StatusCode int
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err as a ServiceError. An err that already is a
// ServiceError is returned unchanged.
func NewServiceError(op string, statusCode int, err error) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return &ServiceError{Op: op, StatusCode: statusCode, Err: err}
}

// ValidationError reports AI output that does not conform to the expected shape.
type ValidationError struct {
	Err   error
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid response: %v", e.Err)
	}
	return fmt.Sprintf("invalid response field %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsServiceError reports whether err is or wraps a ServiceError.
func IsServiceError(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr)
}
