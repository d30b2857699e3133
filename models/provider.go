package models

import (
	"time"
)

// WorkingHours is the daily bookable window, in whole hours of local time.
type WorkingHours struct {
	Start int `bson:"start" json:"start"` // e.g. 9 for 9 AM
	End   int `bson:"end" json:"end"`     // exclusive, e.g. 17 for 5 PM
}

// Break is a recurring daily pause in the provider's schedule.
type Break struct {
	Start string `bson:"start" json:"start"` // "HH:MM"
	End   string `bson:"end" json:"end"`     // "HH:MM", exclusive
	Label string `bson:"label,omitempty" json:"label,omitempty"`
}

// Provider is read-only reference data as far as availability and matching are concerned.
type Provider struct {
	ID                  string              `bson:"id" json:"id"`
	Name                string              `bson:"name" json:"name"`
	Specialty           string              `bson:"specialty" json:"specialty"`
	Location            string              `bson:"location" json:"location,omitempty"` // clinic / practice label
	Coordinate          Coordinate          `bson:"coordinate" json:"coordinate"`
	Rating              float64             `bson:"rating" json:"rating"`
	Reviews             int                 `bson:"reviews" json:"reviews"`
	Price               string              `bson:"price" json:"price"` // e.g. "$150"
	Services            []string            `bson:"services" json:"services,omitempty"`
	Bio                 string              `bson:"bio,omitempty" json:"bio,omitempty"`
	Phone               string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Email               string              `bson:"email,omitempty" json:"email,omitempty"`
	WorkingDays         []time.Weekday      `bson:"workingDays" json:"workingDays"` // 0=Sunday .. 6=Saturday
	WorkingHours        WorkingHours        `bson:"workingHours" json:"workingHours"`
	SlotDurationMinutes int                 `bson:"slotDurationMinutes" json:"slotDurationMinutes"`
	Breaks              []Break             `bson:"breaks,omitempty" json:"breaks,omitempty"`
	BookedSlots         map[string][]string `bson:"bookedSlots" json:"bookedSlots,omitempty"` // ISO date -> "HH:MM"
	UnavailableDates    []string            `bson:"unavailableDates" json:"unavailableDates,omitempty"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// WorksOn reports whether the weekday is part of the provider's weekly template.
func (p Provider) WorksOn(day time.Weekday) bool {
	for _, d := range p.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}

// IsUnavailable reports whether the provider blocked the given ISO date.
func (p Provider) IsUnavailable(isoDate string) bool {
	for _, d := range p.UnavailableDates {
		if d == isoDate {
			return true
		}
	}
	return false
}

// IsBooked reports whether the "HH:MM" value is already reserved on the ISO date.
func (p Provider) IsBooked(isoDate, value string) bool {
	for _, v := range p.BookedSlots[isoDate] {
		if v == value {
			return true
		}
	}
	return false
}

// RankedProvider is a provider decorated with its distance from the searching user.
// DistanceMiles is nil when no user location was supplied.
type RankedProvider struct {
	Provider
	DistanceMiles *float64 `json:"distanceMiles,omitempty"`
	DistanceLabel string   `json:"distanceLabel,omitempty"`
}
