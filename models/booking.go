package models

import "time"

// Appointment status values.
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// BookingRequest is the finalized output of the booking flow, handed to persistence.
type BookingRequest struct {
	ProviderID      string `bson:"providerId" json:"providerId"`
	ProviderName    string `bson:"providerName" json:"providerName"`
	Date            string `bson:"date" json:"date"` // "2006-01-02"
	Time            string `bson:"time" json:"time"` // "HH:MM"
	AppointmentType string `bson:"type" json:"type"`
	Notes           string `bson:"notes" json:"notes"`
	ClientID        string `bson:"clientId" json:"clientId"`
	ClientName      string `bson:"clientName" json:"clientName"`
	Status          string `bson:"status" json:"status"`
}

// Appointment is a persisted BookingRequest.
type Appointment struct {
	ID             string `bson:"id" json:"id"`
	BookingRequest `bson:",inline"`
	// SlotKey is set while the appointment holds its slot and cleared on cancellation.
	SlotKey   string    `bson:"slotKey,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HoldsSlot reports whether the appointment still occupies its provider slot.
func (a Appointment) HoldsSlot() bool {
	return a.Status != StatusCancelled
}

// SlotKeyFor identifies one provider slot on one date.
func SlotKeyFor(providerID, date, slot string) string {
	return providerID + "|" + date + "|" + slot
}

// StartsAt resolves the appointment's date and time in loc.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, loc)
}

// Client identifies who is booking.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ConfirmBookingInput is the body of the stateless confirm endpoint.
type ConfirmBookingInput struct {
	ProviderID      string `json:"providerId" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	AppointmentType string `json:"type" binding:"required"`
	Notes           string `json:"notes"`
}

// AppointmentList is one tab of a client's or provider's appointments.
type AppointmentList struct {
	Tab          string         `json:"tab"`
	Query        string         `json:"query,omitempty"`
	Appointments []Appointment  `json:"appointments"`
	Counts       map[string]int `json:"counts"`
}

// StatusChangeInput is the body of the status endpoint.
type StatusChangeInput struct {
	Status string `json:"status" binding:"required"`
}
