package appointments

import (
	"context"
	"slices"
	"strings"

	"medconnect/models"
	"medconnect/services/booking"
)

// Tab selects which slice of appointments a listing shows.
type Tab string

const (
	TabToday    Tab = "today"
	TabUpcoming Tab = "upcoming"
	TabPast     Tab = "past"
	TabAll      Tab = "all"
)

// Tabs in display order.
var Tabs = []Tab{TabToday, TabUpcoming, TabPast, TabAll}

// ParseTab validates a tab name. Empty means upcoming.
func ParseTab(v string) (Tab, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return TabUpcoming, nil
	}
	if !slices.Contains(Tabs, Tab(v)) {
		return "", booking.NewValidationError("tab", "unknown tab %q", v)
	}
	return Tab(v), nil
}

// Statuses an appointment can be moved to.
var Statuses = []string{
	models.StatusConfirmed,
	models.StatusPending,
	models.StatusCompleted,
	models.StatusCancelled,
}

// ListCriteria selects appointments. Exactly one of ClientID or ProviderID is expected.
type ListCriteria struct {
	ClientID   string
	ProviderID string
	Tab        Tab
	Query      string
}

// StatusChange moves an appointment to Status. A non-empty ClientID restricts the change
// to that client's own appointments.
type StatusChange struct {
	AppointmentID string
	ClientID      string
	Status        string
}

// AppointmentService lists appointments and manages their lifecycle after booking.
type AppointmentService interface {
	List(ctx context.Context, criteria ListCriteria) (*models.AppointmentList, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, change StatusChange) (*models.Appointment, error)
}
