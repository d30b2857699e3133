package appointmentRepo

import (
	"context"
	"errors"

	"medconnect/models"
)

var (
	// ErrStaleSlot is returned by Save when another appointment already holds the slot.
	ErrStaleSlot           = errors.New("time slot is no longer available")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// AppointmentFilter selects appointments by owner. Empty fields match all.
type AppointmentFilter struct {
	ClientID   string
	ProviderID string
}

// AppointmentRepository is the booking persistence sink.
type AppointmentRepository interface {
	// Save stores a new appointment, failing with ErrStaleSlot if its slot is taken.
	Save(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// List returns matching appointments in chronological order.
	List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	// UpdateStatus changes the status. Leaving "cancelled" re-claims the slot and can
	// fail with ErrStaleSlot.
	UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error)
}
