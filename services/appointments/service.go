package appointments

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	appointmentRepo "medconnect/database/repository/appointment"
	providerRepo "medconnect/database/repository/provider"
	"medconnect/models"
	"medconnect/services/booking"
	"medconnect/services/notification"

	"go.uber.org/zap"
)

var ErrAppointmentNotFound = appointmentRepo.ErrAppointmentNotFound

// DefaultAppointmentService implements AppointmentService.
type DefaultAppointmentService struct {
	Appointments appointmentRepo.AppointmentRepository
	Providers    providerRepo.ProviderRepository
	Notifier     notification.NotificationService
	Logger       *zap.Logger
	// Now is the clock; nil means time.Now. Its location decides what "today" is.
	Now func() time.Time
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAppointmentService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// List returns the appointments on criteria.Tab that match criteria.Query, oldest first,
// together with the unfiltered size of every tab.
func (s *DefaultAppointmentService) List(ctx context.Context, criteria ListCriteria) (*models.AppointmentList, error) {
	if criteria.ClientID == "" && criteria.ProviderID == "" {
		return nil, booking.NewValidationError("owner", "a client or provider is required")
	}
	tab := criteria.Tab
	if tab == "" {
		tab = TabUpcoming
	}
	if !slices.Contains(Tabs, tab) {
		return nil, booking.NewValidationError("tab", "unknown tab %q", tab)
	}

	all, err := s.Appointments.List(ctx, appointmentRepo.AppointmentFilter{
		ClientID:   criteria.ClientID,
		ProviderID: criteria.ProviderID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	now := s.now()
	counts := make(map[string]int, len(Tabs))
	for _, t := range Tabs {
		counts[string(t)] = 0
	}
	query := strings.ToLower(strings.TrimSpace(criteria.Query))
	out := []models.Appointment{}
	for _, appt := range all {
		for _, t := range Tabs {
			if OnTab(appt, t, now) {
				counts[string(t)]++
			}
		}
		if OnTab(appt, tab, now) && matchesQuery(appt, query) {
			out = append(out, appt)
		}
	}

	return &models.AppointmentList{
		Tab:          string(tab),
		Query:        strings.TrimSpace(criteria.Query),
		Appointments: out,
		Counts:       counts,
	}, nil
}

// OnTab reports whether appt belongs on tab at now. Today holds every appointment dated
// today. Upcoming holds active appointments that have not started; past holds the rest.
func OnTab(appt models.Appointment, tab Tab, now time.Time) bool {
	switch tab {
	case TabAll:
		return true
	case TabToday:
		return appt.Date == booking.ISODate(now)
	case TabUpcoming:
		return isUpcoming(appt, now)
	case TabPast:
		return !isUpcoming(appt, now)
	}
	return false
}

func isUpcoming(appt models.Appointment, now time.Time) bool {
	if appt.Status == models.StatusCancelled || appt.Status == models.StatusCompleted {
		return false
	}
	start, err := appt.StartsAt(now.Location())
	if err != nil {
		return false
	}
	return !start.Before(now)
}

func matchesQuery(appt models.Appointment, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{appt.AppointmentType, appt.Notes, appt.ProviderName, appt.ClientName} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (s *DefaultAppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	return s.Appointments.GetByID(ctx, id)
}

// UpdateStatus moves an appointment to a new status. Cancelling releases the provider
// slot; reviving a cancelled appointment claims it again and fails with ErrStaleSlot when
// someone else booked it in the meantime.
func (s *DefaultAppointmentService) UpdateStatus(ctx context.Context, change StatusChange) (*models.Appointment, error) {
	logger := s.logger()
	status := strings.ToLower(strings.TrimSpace(change.Status))
	if !slices.Contains(Statuses, status) {
		return nil, booking.NewValidationError("status", "unknown status %q", change.Status)
	}

	current, err := s.Appointments.GetByID(ctx, change.AppointmentID)
	if err != nil {
		return nil, err
	}
	if change.ClientID != "" && current.ClientID != change.ClientID {
		return nil, fmt.Errorf("%w: %s", ErrAppointmentNotFound, change.AppointmentID)
	}
	if current.Status == status {
		return current, nil
	}

	updated, err := s.Appointments.UpdateStatus(ctx, current.ID, status)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStaleSlot) || errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	switch {
	case current.HoldsSlot() && !updated.HoldsSlot():
		if err := s.Providers.RemoveBookedSlot(ctx, updated.ProviderID, updated.Date, updated.Time); err != nil {
			logger.Error("Failed to release booked slot", zap.String("appointmentId", updated.ID), zap.Error(err))
		}
	case !current.HoldsSlot() && updated.HoldsSlot():
		if err := s.Providers.AddBookedSlot(ctx, updated.ProviderID, updated.Date, updated.Time); err != nil {
			logger.Error("Failed to mark slot booked", zap.String("appointmentId", updated.ID), zap.Error(err))
		}
	}

	if s.Notifier != nil {
		if err := s.Notifier.NotifyStatusChanged(ctx, *updated); err != nil {
			logger.Warn("Failed to send status notification", zap.String("appointmentId", updated.ID), zap.Error(err))
		}
	}

	logger.Info("Appointment status changed",
		zap.String("appointmentId", updated.ID),
		zap.String("from", current.Status),
		zap.String("to", updated.Status))
	return updated, nil
}
