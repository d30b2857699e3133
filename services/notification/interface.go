package notification

import (
	"context"
	"fmt"

	"medconnect/models"
)

// Message is a push payload addressed to one client.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers a message to a client over some channel.
type Sender interface {
	Send(ctx context.Context, clientID string, msg Message) error
}

// NotificationService defines the booking notifications clients receive.
type NotificationService interface {
	NotifyBookingConfirmed(ctx context.Context, appt models.Appointment) error
	NotifyAppointmentReminder(ctx context.Context, appt models.Appointment) error
	NotifyStatusChanged(ctx context.Context, appt models.Appointment) error
}

// DefaultNotificationService renders booking events into messages for a Sender.
type DefaultNotificationService struct {
	sender Sender
}

func NewDefaultNotificationService(sender Sender) (*DefaultNotificationService, error) {
	if sender == nil {
		return nil, fmt.Errorf("notification service initialization error: sender is nil")
	}
	return &DefaultNotificationService{sender: sender}, nil
}

func appointmentData(kind string, appt models.Appointment) map[string]string {
	return map[string]string{
		"type":          kind,
		"appointmentId": appt.ID,
		"providerId":    appt.ProviderID,
		"date":          appt.Date,
		"time":          appt.Time,
		"status":        appt.Status,
	}
}

func (s *DefaultNotificationService) NotifyBookingConfirmed(ctx context.Context, appt models.Appointment) error {
	return s.sender.Send(ctx, appt.ClientID, Message{
		Title: "Appointment confirmed",
		Body: fmt.Sprintf("Your %s with %s is booked for %s at %s.",
			appt.AppointmentType, appt.ProviderName, appt.Date, appt.Time),
		Data: appointmentData("booking_confirmed", appt),
	})
}

func (s *DefaultNotificationService) NotifyAppointmentReminder(ctx context.Context, appt models.Appointment) error {
	return s.sender.Send(ctx, appt.ClientID, Message{
		Title: "Upcoming appointment",
		Body: fmt.Sprintf("Reminder: %s with %s on %s at %s.",
			appt.AppointmentType, appt.ProviderName, appt.Date, appt.Time),
		Data: appointmentData("appointment_reminder", appt),
	})
}

func (s *DefaultNotificationService) NotifyStatusChanged(ctx context.Context, appt models.Appointment) error {
	return s.sender.Send(ctx, appt.ClientID, Message{
		Title: "Appointment " + appt.Status,
		Body: fmt.Sprintf("Your appointment with %s on %s at %s is now %s.",
			appt.ProviderName, appt.Date, appt.Time, appt.Status),
		Data: appointmentData("status_changed", appt),
	})
}
