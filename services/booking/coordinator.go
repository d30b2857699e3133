package booking

import (
	"slices"
	"strings"
	"time"

	"medconnect/models"
)

// AppointmentTypes are the recognised appointment type strings.
var AppointmentTypes = []string{
	"Consultation",
	"Follow-up",
	"Check-up",
	"Emergency",
	"Routine Examination",
	"Specialist Consultation",
}

func IsAppointmentType(t string) bool {
	return slices.Contains(AppointmentTypes, t)
}

// ConfirmRequest carries the user's final selections.
type ConfirmRequest struct {
	Provider        models.Provider
	SelectedDate    time.Time
	SelectedTime    string
	AppointmentType string
	Notes           string
	Client          models.Client
	// Today anchors the availability check.
	Today time.Time
}

// ConfirmBooking validates the selections and assembles a confirmed BookingRequest.
// The date must be available in its own month and the time must be one of the slots
// freshly generated for that date. It does not persist anything; the persistence layer
// may still reject the request with ErrStaleSlot.
func ConfirmBooking(req ConfirmRequest) (*models.BookingRequest, error) {
	date := req.SelectedDate
	if date.IsZero() {
		return nil, NewValidationError("date", "no date selected")
	}
	if !IsDateAvailable(date, date.Year(), date.Month(), req.Provider, req.Today) {
		return nil, NewValidationError("date", "%s is not available with %s", ISODate(date), req.Provider.Name)
	}

	selectedTime := strings.TrimSpace(req.SelectedTime)
	if selectedTime == "" {
		return nil, NewValidationError("time", "no time selected")
	}
	if !ContainsSlot(GenerateSlots(date, req.Provider), selectedTime) {
		return nil, NewValidationError("time", "%s on %s is not an open slot", selectedTime, ISODate(date))
	}

	if !IsAppointmentType(req.AppointmentType) {
		return nil, NewValidationError("type", "unknown appointment type %q", req.AppointmentType)
	}

	return &models.BookingRequest{
		ProviderID:      req.Provider.ID,
		ProviderName:    req.Provider.Name,
		Date:            ISODate(date),
		Time:            selectedTime,
		AppointmentType: req.AppointmentType,
		Notes:           strings.TrimSpace(req.Notes),
		ClientID:        req.Client.ID,
		ClientName:      req.Client.Name,
		Status:          models.StatusConfirmed,
	}, nil
}
