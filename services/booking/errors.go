package booking

import (
	"errors"
	"fmt"

	appointmentRepo "medconnect/database/repository/appointment"
	providerRepo "medconnect/database/repository/provider"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("booking validation failed")
	// ErrStaleSlot means the persistence layer rejected a locally valid booking because
	// the slot was taken in the meantime.
	ErrStaleSlot        = appointmentRepo.ErrStaleSlot
	ErrProviderNotFound = providerRepo.ErrProviderNotFound
	ErrSessionNotFound  = errors.New("booking session not found or expired")
)

// ValidationError reports which booking precondition failed. The caller should send the
// user back to date/slot selection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
