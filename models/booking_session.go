package models

import "time"

// BookingSession holds the host-owned selection state between calendar, slot picking and
// confirmation. It is cached, never persisted.
type BookingSession struct {
	SessionID      string     `json:"sessionId"`
	Client         Client     `json:"client"`
	ProviderID     string     `json:"providerId"`
	ProviderName   string     `json:"providerName"`
	DisplayedYear  int        `json:"displayedYear"`
	DisplayedMonth int        `json:"displayedMonth"`
	SelectedDate   string     `json:"selectedDate,omitempty"`
	SelectedTime   string     `json:"selectedTime,omitempty"`
	Slots          []TimeSlot `json:"slots,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// BookingResponse is returned by the session endpoints.
type BookingResponse struct {
	Session     *BookingSession `json:"session,omitempty"`
	Calendar    []CalendarDay   `json:"calendar,omitempty"`
	Appointment *Appointment    `json:"appointment,omitempty"`
	Message     string          `json:"message,omitempty"`
}
