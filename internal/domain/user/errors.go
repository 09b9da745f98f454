package user

import (
	"helpdesk/internal/shared/errors"
)

// DomainError represents a user domain-specific error
type DomainError struct {
	*errors.AppError
}

// NewDomainError creates a new user domain error
func NewDomainError(message string, details ...string) *DomainError {
	return &DomainError{
		AppError: errors.NewValidationError(message, details...),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.AppError.Error()
}

// Unwrap exposes the AppError to errors.As
func (e *DomainError) Unwrap() error {
	return e.AppError
}
