package models

import "time"

// CalendarDay is one cell of the six-week month grid.
type CalendarDay struct {
	Date           time.Time `json:"-"`
	ISODate        string    `json:"date"` // "2006-01-02"
	Day            int       `json:"day"`
	IsCurrentMonth bool      `json:"isCurrentMonth"`
	IsAvailable    bool      `json:"isAvailable"`
	IsSelected     bool      `json:"isSelected"`
}

// TimeSlot is a bookable start time. Unavailable times are never emitted, so Available
// is always true.
type TimeSlot struct {
	Value     string `json:"value"`   // "HH:MM", 24-hour
	Display   string `json:"display"` // "2:30 PM"
	Available bool   `json:"available"`
}

// CalendarResponse is what the calendar endpoint returns.
type CalendarResponse struct {
	ProviderID string        `json:"providerId"`
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	MonthName  string        `json:"monthName"`
	Days       []CalendarDay `json:"days"`
}

// SlotsResponse is what the slots endpoint returns.
type SlotsResponse struct {
	ProviderID string     `json:"providerId"`
	Date       string     `json:"date"`
	Slots      []TimeSlot `json:"slots"`
	Message    string     `json:"message,omitempty"`
}
