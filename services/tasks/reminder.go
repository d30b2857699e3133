package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medconnect/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeAppointmentReminder = "appointment:reminder"

// ReminderPayload is the asynq payload of an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	ClientID      string `json:"clientId"`
	StartsAt      string `json:"startsAt"`
}

func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.AppointmentID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues a reminder LeadTime before each appointment.
type ReminderScheduler struct {
	Queue    Enqueuer
	LeadTime time.Duration
	// Location appointments' local dates and times are interpreted in. Defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger
}

// ScheduleReminder returns false without error when the reminder moment has already
// passed. Scheduling the same appointment twice is not an error.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, appt models.Appointment) (bool, error) {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	startsAt, err := appt.StartsAt(loc)
	if err != nil {
		return false, fmt.Errorf("invalid appointment time %s %s: %w", appt.Date, appt.Time, err)
	}
	fireAt := startsAt.Add(-s.LeadTime)
	if !fireAt.After(now()) {
		return false, nil
	}

	task, opts, err := NewReminderTask(ReminderPayload{
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		StartsAt:      startsAt.Format(time.RFC3339),
	}, fireAt)
	if err != nil {
		return false, fmt.Errorf("failed to build reminder task: %w", err)
	}

	info, err := s.Queue.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("Reminder scheduled",
			zap.String("appointmentId", appt.ID),
			zap.String("taskId", info.ID),
			zap.Time("fireAt", fireAt))
	}
	return true, nil
}
