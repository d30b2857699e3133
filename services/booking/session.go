package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	appointmentRepo "medconnect/database/repository/appointment"
	providerRepo "medconnect/database/repository/provider"
	"medconnect/metrics"
	"medconnect/models"
	"medconnect/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore keeps booking sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, session *models.BookingSession) error
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore stores sessions as JSON with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string { return "booking:session:" + id }

func (s *RedisSessionStore) Save(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session: %w", err)
	}
	return nil
}

// ReminderScheduler is satisfied by *tasks.ReminderScheduler.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment) (bool, error)
}

// BookingSessionService drives the calendar → date → time → confirm flow.
type BookingSessionService interface {
	StartSession(ctx context.Context, client models.Client, providerID string) (*models.BookingResponse, error)
	GetSession(ctx context.Context, sessionID string) (*models.BookingResponse, error)
	NavigateMonth(ctx context.Context, sessionID string, delta int) (*models.BookingResponse, error)
	SelectDate(ctx context.Context, sessionID, date string) (*models.BookingResponse, error)
	SelectTime(ctx context.Context, sessionID, value string) (*models.BookingResponse, error)
	ConfirmSession(ctx context.Context, sessionID, appointmentType, notes string) (*models.BookingResponse, error)
	CancelSession(ctx context.Context, sessionID string) error
	Confirm(ctx context.Context, client models.Client, input models.ConfirmBookingInput) (*models.Appointment, error)
	Calendar(ctx context.Context, providerID string, view MonthView, selected string) (*models.CalendarResponse, error)
	Slots(ctx context.Context, providerID, date string) (*models.SlotsResponse, error)
}

// DefaultBookingSessionService implements BookingSessionService.
type DefaultBookingSessionService struct {
	Sessions     SessionStore
	Providers    providerRepo.ProviderRepository
	Appointments appointmentRepo.AppointmentRepository
	Notifier     notification.NotificationService
	Reminders    ReminderScheduler
	Metrics      *metrics.BookingMetrics
	Logger       *zap.Logger
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultBookingSessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingSessionService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

func (s *DefaultBookingSessionService) respond(session *models.BookingSession, provider *models.Provider, message string) *models.BookingResponse {
	today := s.now()
	var selected time.Time
	if session.SelectedDate != "" {
		selected, _ = ParseISODate(session.SelectedDate, today.Location())
	}
	return &models.BookingResponse{
		Session:  session,
		Calendar: GenerateMonth(session.DisplayedYear, time.Month(session.DisplayedMonth), *provider, today, selected),
		Message:  message,
	}
}

// load fetches the session and a fresh copy of its provider.
func (s *DefaultBookingSessionService) load(ctx context.Context, sessionID string) (*models.BookingSession, *models.Provider, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	provider, err := s.Providers.GetByID(ctx, session.ProviderID)
	if err != nil {
		return nil, nil, err
	}
	return session, provider, nil
}

func (s *DefaultBookingSessionService) StartSession(ctx context.Context, client models.Client, providerID string) (*models.BookingResponse, error) {
	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	session := &models.BookingSession{
		SessionID:      uuid.New().String(),
		Client:         client,
		ProviderID:     provider.ID,
		ProviderName:   provider.Name,
		DisplayedYear:  now.Year(),
		DisplayedMonth: int(now.Month()),
		CreatedAt:      now,
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	s.logger().Info("Booking session started",
		zap.String("sessionId", session.SessionID),
		zap.String("providerId", provider.ID),
		zap.String("clientId", client.ID))
	return s.respond(session, provider, ""), nil
}

func (s *DefaultBookingSessionService) GetSession(ctx context.Context, sessionID string) (*models.BookingResponse, error) {
	session, provider, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(session, provider, ""), nil
}

// NavigateMonth moves the displayed month and discards the date and time selection.
func (s *DefaultBookingSessionService) NavigateMonth(ctx context.Context, sessionID string, delta int) (*models.BookingResponse, error) {
	session, provider, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := MonthView{Year: session.DisplayedYear, Month: time.Month(session.DisplayedMonth)}.Add(delta)
	session.DisplayedYear = view.Year
	session.DisplayedMonth = int(view.Month)
	session.SelectedDate = ""
	session.SelectedTime = ""
	session.Slots = nil
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.respond(session, provider, ""), nil
}

// SelectDate accepts only dates available in the displayed month, regenerates the slot
// list and clears any chosen time.
func (s *DefaultBookingSessionService) SelectDate(ctx context.Context, sessionID, date string) (*models.BookingResponse, error) {
	session, provider, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	today := s.now()
	day, err := ParseISODate(strings.TrimSpace(date), today.Location())
	if err != nil {
		return nil, err
	}
	if !IsDateAvailable(day, session.DisplayedYear, time.Month(session.DisplayedMonth), *provider, today) {
		return nil, NewValidationError("date", "%s is not available", ISODate(day))
	}

	slots := GenerateSlots(day, *provider)
	s.Metrics.ObserveSlots(len(slots))
	session.SelectedDate = ISODate(day)
	session.SelectedTime = ""
	session.Slots = slots
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	message := ""
	if len(slots) == 0 {
		message = "No available time slots for this date"
	}
	return s.respond(session, provider, message), nil
}

// SelectTime accepts only a value from the session's current slot list.
func (s *DefaultBookingSessionService) SelectTime(ctx context.Context, sessionID, value string) (*models.BookingResponse, error) {
	session, provider, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.SelectedDate == "" {
		return nil, NewValidationError("date", "select a date first")
	}
	value = strings.TrimSpace(value)
	if !ContainsSlot(session.Slots, value) {
		return nil, NewValidationError("time", "%s is not an open slot on %s", value, session.SelectedDate)
	}
	session.SelectedTime = value
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.respond(session, provider, ""), nil
}

// ConfirmSession books the session's selection against fresh provider data. On a stale
// slot the session keeps its date, gets a regenerated slot list and loses its time.
func (s *DefaultBookingSessionService) ConfirmSession(ctx context.Context, sessionID, appointmentType, notes string) (*models.BookingResponse, error) {
	session, provider, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.SelectedDate == "" {
		return nil, NewValidationError("date", "no date selected")
	}
	day, err := ParseISODate(session.SelectedDate, s.now().Location())
	if err != nil {
		return nil, err
	}

	appt, err := s.book(ctx, provider, day, session.SelectedTime, appointmentType, notes, session.Client)
	switch {
	case errors.Is(err, ErrStaleSlot):
		s.refreshSlots(ctx, session, day, true)
	case errors.Is(err, ErrValidation):
		s.refreshSlots(ctx, session, day, false)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		s.logger().Warn("Failed to delete confirmed booking session", zap.String("sessionId", sessionID), zap.Error(err))
	}
	return &models.BookingResponse{
		Appointment: appt,
		Message:     "Appointment confirmed",
	}, nil
}

// refreshSlots re-reads the provider so the user picks from what is actually open. The
// chosen time is dropped when dropTime is set or when it is no longer open.
func (s *DefaultBookingSessionService) refreshSlots(ctx context.Context, session *models.BookingSession, day time.Time, dropTime bool) {
	provider, err := s.Providers.GetByID(ctx, session.ProviderID)
	if err != nil {
		return
	}
	session.Slots = GenerateSlots(day, *provider)
	if dropTime || !ContainsSlot(session.Slots, session.SelectedTime) {
		session.SelectedTime = ""
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		s.logger().Warn("Failed to refresh booking session", zap.String("sessionId", session.SessionID), zap.Error(err))
	}
}

func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	if _, err := s.Sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// Confirm books without a session, validating the submitted selection directly.
func (s *DefaultBookingSessionService) Confirm(ctx context.Context, client models.Client, input models.ConfirmBookingInput) (*models.Appointment, error) {
	provider, err := s.Providers.GetByID(ctx, input.ProviderID)
	if err != nil {
		return nil, err
	}
	day, err := ParseISODate(strings.TrimSpace(input.Date), s.now().Location())
	if err != nil {
		return nil, err
	}
	return s.book(ctx, provider, day, input.Time, input.AppointmentType, input.Notes, client)
}

func (s *DefaultBookingSessionService) book(
	ctx context.Context,
	provider *models.Provider,
	day time.Time,
	selectedTime, appointmentType, notes string,
	client models.Client,
) (*models.Appointment, error) {
	logger := s.logger()

	req, err := ConfirmBooking(ConfirmRequest{
		Provider:        *provider,
		SelectedDate:    day,
		SelectedTime:    selectedTime,
		AppointmentType: appointmentType,
		Notes:           notes,
		Client:          client,
		Today:           s.now(),
	})
	if err != nil {
		s.Metrics.ObserveBooking("invalid")
		return nil, err
	}

	appt := &models.Appointment{ID: uuid.New().String(), BookingRequest: *req}
	if err := s.Appointments.Save(ctx, appt); err != nil {
		if errors.Is(err, ErrStaleSlot) {
			s.Metrics.ObserveBooking("stale")
			logger.Info("Slot taken before confirmation",
				zap.String("providerId", req.ProviderID),
				zap.String("date", req.Date),
				zap.String("time", req.Time))
			return nil, err
		}
		s.Metrics.ObserveBooking("error")
		return nil, fmt.Errorf("failed to save appointment: %w", err)
	}

	if err := s.Providers.AddBookedSlot(ctx, req.ProviderID, req.Date, req.Time); err != nil {
		logger.Error("Failed to mark slot booked", zap.String("appointmentId", appt.ID), zap.Error(err))
	}
	if s.Notifier != nil {
		if err := s.Notifier.NotifyBookingConfirmed(ctx, *appt); err != nil {
			logger.Warn("Failed to send booking confirmation", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}
	if s.Reminders != nil {
		if _, err := s.Reminders.ScheduleReminder(ctx, *appt); err != nil {
			logger.Warn("Failed to schedule reminder", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	s.Metrics.ObserveBooking("confirmed")
	logger.Info("Appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("providerId", req.ProviderID),
		zap.String("clientId", req.ClientID),
		zap.String("date", req.Date),
		zap.String("time", req.Time))
	return appt, nil
}

// Calendar renders a provider's month grid. An empty selected marks no day.
func (s *DefaultBookingSessionService) Calendar(ctx context.Context, providerID string, view MonthView, selected string) (*models.CalendarResponse, error) {
	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	today := s.now()
	var sel time.Time
	if selected != "" {
		if sel, err = ParseISODate(selected, today.Location()); err != nil {
			return nil, err
		}
	}
	if view.Year == 0 || view.Month == 0 {
		view = MonthViewOf(today)
	}
	if view.Month < time.January || view.Month > time.December {
		return nil, NewValidationError("month", "month must be between 1 and 12")
	}
	return &models.CalendarResponse{
		ProviderID: provider.ID,
		Year:       view.Year,
		Month:      int(view.Month),
		MonthName:  view.String(),
		Days:       GenerateMonth(view.Year, view.Month, *provider, today, sel),
	}, nil
}

// Slots lists the open slots on date. Unavailable dates yield an empty list with a
// message rather than an error.
func (s *DefaultBookingSessionService) Slots(ctx context.Context, providerID, date string) (*models.SlotsResponse, error) {
	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	today := s.now()
	day, err := ParseISODate(strings.TrimSpace(date), today.Location())
	if err != nil {
		return nil, err
	}

	resp := &models.SlotsResponse{ProviderID: provider.ID, Date: ISODate(day), Slots: []models.TimeSlot{}}
	if !IsDateAvailable(day, day.Year(), day.Month(), *provider, today) {
		resp.Message = "Provider is not available on this date"
		return resp, nil
	}
	resp.Slots = GenerateSlots(day, *provider)
	s.Metrics.ObserveSlots(len(resp.Slots))
	if len(resp.Slots) == 0 {
		resp.Message = "No available time slots for this date"
	}
	return resp, nil
}
