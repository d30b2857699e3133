package appointmentRepo

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"medconnect/models"
)

// MemoryAppointmentRepo keeps appointments in process.
type MemoryAppointmentRepo struct {
	mu    sync.RWMutex
	byID  map[string]*models.Appointment
	slots map[string]string // slot key -> appointment id
}

func NewMemoryAppointmentRepo() *MemoryAppointmentRepo {
	return &MemoryAppointmentRepo{
		byID:  map[string]*models.Appointment{},
		slots: map[string]string{},
	}
}

func (r *MemoryAppointmentRepo) Save(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[appt.ID]; exists {
		return fmt.Errorf("appointment %s already exists", appt.ID)
	}
	appt.SlotKey = ""
	if appt.HoldsSlot() {
		key := models.SlotKeyFor(appt.ProviderID, appt.Date, appt.Time)
		if _, taken := r.slots[key]; taken {
			return fmt.Errorf("%w: %s %s", ErrStaleSlot, appt.Date, appt.Time)
		}
		appt.SlotKey = key
		r.slots[key] = appt.ID
	}

	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	stored := *appt
	r.byID[appt.ID] = &stored
	return nil
}

func (r *MemoryAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appt, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}
	out := *appt
	return &out, nil
}

func (r *MemoryAppointmentRepo) List(_ context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Appointment{}
	for _, appt := range r.byID {
		if filter.ClientID != "" && appt.ClientID != filter.ClientID {
			continue
		}
		if filter.ProviderID != "" && appt.ProviderID != filter.ProviderID {
			continue
		}
		out = append(out, *appt)
	}
	slices.SortFunc(out, func(a, b models.Appointment) int {
		return cmp.Or(
			cmp.Compare(a.Date, b.Date),
			cmp.Compare(a.Time, b.Time),
			a.CreatedAt.Compare(b.CreatedAt),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out, nil
}

func (r *MemoryAppointmentRepo) UpdateStatus(_ context.Context, id, status string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}

	key := models.SlotKeyFor(appt.ProviderID, appt.Date, appt.Time)
	if status == models.StatusCancelled {
		if r.slots[key] == appt.ID {
			delete(r.slots, key)
		}
		appt.SlotKey = ""
	} else if appt.SlotKey == "" {
		if _, taken := r.slots[key]; taken {
			return nil, fmt.Errorf("%w: %s %s", ErrStaleSlot, appt.Date, appt.Time)
		}
		r.slots[key] = appt.ID
		appt.SlotKey = key
	}
	appt.Status = status
	appt.UpdatedAt = time.Now()
	out := *appt
	return &out, nil
}
