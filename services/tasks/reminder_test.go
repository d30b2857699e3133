package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	appointmentRepo "medconnect/database/repository/appointment"
	"medconnect/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQueue struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	q.opts = append(q.opts, opts)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func appointmentAt(date, slot string) models.Appointment {
	return models.Appointment{
		ID: "appt-1",
		BookingRequest: models.BookingRequest{
			ProviderID:      "1",
			ProviderName:    "Dr. Sarah Wilson",
			Date:            date,
			Time:            slot,
			AppointmentType: "Check-up",
			ClientID:        "client-1",
			Status:          models.StatusConfirmed,
		},
	}
}

func newScheduler(q Enqueuer, now time.Time) *ReminderScheduler {
	return &ReminderScheduler{
		Queue:    q,
		LeadTime: 24 * time.Hour,
		Location: time.UTC,
		Now:      func() time.Time { return now },
		Logger:   zap.NewNop(),
	}
}

func TestScheduleReminderProcessAt(t *testing.T) {
	q := &fakeQueue{}
	s := newScheduler(q, time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))

	scheduled, err := s.ScheduleReminder(context.Background(), appointmentAt("2024-01-15", "09:30"))
	require.NoError(t, err)
	assert.True(t, scheduled)
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeAppointmentReminder, q.tasks[0].Type())

	var payload ReminderPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, "appt-1", payload.AppointmentID)

	var processAt time.Time
	for _, o := range q.opts[0] {
		if o.Type() == asynq.ProcessAtOpt {
			processAt = o.Value().(time.Time)
		}
	}
	assert.Equal(t, time.Date(2024, 1, 14, 9, 30, 0, 0, time.UTC), processAt)
}

func TestScheduleReminderSkipsPastMoment(t *testing.T) {
	q := &fakeQueue{}
	s := newScheduler(q, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))

	scheduled, err := s.ScheduleReminder(context.Background(), appointmentAt("2024-01-15", "09:30"))
	require.NoError(t, err)
	assert.False(t, scheduled)
	assert.Empty(t, q.tasks)
}

func TestScheduleReminderErrors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := newScheduler(&fakeQueue{}, now).ScheduleReminder(context.Background(), appointmentAt("not-a-date", "09:30"))
	assert.Error(t, err)

	dup := &fakeQueue{err: asynq.ErrTaskIDConflict}
	scheduled, err := newScheduler(dup, now).ScheduleReminder(context.Background(), appointmentAt("2024-01-15", "09:30"))
	require.NoError(t, err)
	assert.True(t, scheduled)

	down := &fakeQueue{err: errors.New("redis down")}
	_, err = newScheduler(down, now).ScheduleReminder(context.Background(), appointmentAt("2024-01-15", "09:30"))
	assert.Error(t, err)
}

type recordingNotifier struct {
	reminders []models.Appointment
	err       error
}

func (r *recordingNotifier) NotifyBookingConfirmed(context.Context, models.Appointment) error {
	return nil
}

func (r *recordingNotifier) NotifyAppointmentReminder(_ context.Context, appt models.Appointment) error {
	if r.err != nil {
		return r.err
	}
	r.reminders = append(r.reminders, appt)
	return nil
}

func (r *recordingNotifier) NotifyStatusChanged(context.Context, models.Appointment) error {
	return nil
}

func reminderTask(t *testing.T, id string) *asynq.Task {
	t.Helper()
	task, _, err := NewReminderTask(ReminderPayload{AppointmentID: id}, time.Now())
	require.NoError(t, err)
	return task
}

func TestReminderHandler(t *testing.T) {
	ctx := context.Background()
	repo := appointmentRepo.NewMemoryAppointmentRepo()
	appt := appointmentAt("2024-01-15", "09:30")
	require.NoError(t, repo.Save(ctx, &appt))

	notifier := &recordingNotifier{}
	h := &ReminderHandler{Appointments: repo, Notifier: notifier, Logger: zap.NewNop()}

	require.NoError(t, h.ProcessTask(ctx, reminderTask(t, "appt-1")))
	require.Len(t, notifier.reminders, 1)
	assert.Equal(t, "client-1", notifier.reminders[0].ClientID)

	// Unknown appointments are dropped without retry.
	require.NoError(t, h.ProcessTask(ctx, reminderTask(t, "ghost")))

	_, err := repo.UpdateStatus(ctx, "appt-1", models.StatusCancelled)
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(ctx, reminderTask(t, "appt-1")))
	assert.Len(t, notifier.reminders, 1)

	err = h.ProcessTask(ctx, asynq.NewTask(TypeAppointmentReminder, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestReminderHandlerNotifierFailure(t *testing.T) {
	ctx := context.Background()
	repo := appointmentRepo.NewMemoryAppointmentRepo()
	appt := appointmentAt("2024-01-15", "09:30")
	require.NoError(t, repo.Save(ctx, &appt))

	h := &ReminderHandler{
		Appointments: repo,
		Notifier:     &recordingNotifier{err: errors.New("fcm down")},
		Logger:       zap.NewNop(),
	}
	assert.Error(t, h.ProcessTask(ctx, reminderTask(t, "appt-1")))
}
