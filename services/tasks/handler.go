package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	appointmentRepo "medconnect/database/repository/appointment"
	"medconnect/metrics"
	"medconnect/models"
	"medconnect/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderHandler processes appointment:reminder tasks.
type ReminderHandler struct {
	Appointments appointmentRepo.AppointmentRepository
	Notifier     notification.NotificationService
	Metrics      *metrics.BookingMetrics
	Logger       *zap.Logger
}

func (h *ReminderHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var p ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		h.Metrics.ObserveReminder("invalid")
		return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	appt, err := h.Appointments.GetByID(ctx, p.AppointmentID)
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		h.Logger.Warn("Reminder for unknown appointment", zap.String("appointmentId", p.AppointmentID))
		h.Metrics.ObserveReminder("skipped")
		return nil
	}
	if err != nil {
		return err
	}

	if appt.Status == models.StatusCancelled || appt.Status == models.StatusCompleted {
		h.Logger.Debug("Skipping reminder",
			zap.String("appointmentId", appt.ID),
			zap.String("status", appt.Status))
		h.Metrics.ObserveReminder("skipped")
		return nil
	}

	if err := h.Notifier.NotifyAppointmentReminder(ctx, *appt); err != nil {
		h.Logger.Error("Failed to send reminder", zap.String("appointmentId", appt.ID), zap.Error(err))
		h.Metrics.ObserveReminder("failed")
		return err
	}
	h.Metrics.ObserveReminder("sent")
	return nil
}
