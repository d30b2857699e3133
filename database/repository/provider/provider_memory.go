package providerRepo

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"medconnect/models"
)

// MemoryProviderRepo keeps the catalog in process. Used in mock mode and tests.
type MemoryProviderRepo struct {
	mu        sync.RWMutex
	providers []models.Provider
}

func NewMemoryProviderRepo(seed []models.Provider) *MemoryProviderRepo {
	r := &MemoryProviderRepo{}
	for _, p := range seed {
		r.providers = append(r.providers, clone(p))
	}
	return r
}

// clone copies the mutable parts of a provider so callers never share schedule state.
func clone(p models.Provider) models.Provider {
	p.WorkingDays = slices.Clone(p.WorkingDays)
	p.Services = slices.Clone(p.Services)
	p.Breaks = slices.Clone(p.Breaks)
	p.UnavailableDates = slices.Clone(p.UnavailableDates)
	booked := make(map[string][]string, len(p.BookedSlots))
	for date, times := range p.BookedSlots {
		booked[date] = slices.Clone(times)
	}
	p.BookedSlots = booked
	return p
}

func (r *MemoryProviderRepo) indexOf(id string) int {
	return slices.IndexFunc(r.providers, func(p models.Provider) bool { return p.ID == id })
}

func (r *MemoryProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, id)
	}
	p := clone(r.providers[i])
	return &p, nil
}

func (r *MemoryProviderRepo) GetAll(ctx context.Context) ([]models.Provider, error) {
	return r.Search(ctx, ProviderSearchCriteria{})
}

func (r *MemoryProviderRepo) Search(_ context.Context, criteria ProviderSearchCriteria) ([]models.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	query := strings.ToLower(strings.TrimSpace(criteria.Query))
	out := []models.Provider{}
	for _, p := range r.providers {
		if criteria.Specialty != "" && p.Specialty != criteria.Specialty {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Specialty), query) &&
			!strings.Contains(strings.ToLower(p.Location), query) {
			continue
		}
		out = append(out, clone(p))
	}
	return out, nil
}

func (r *MemoryProviderRepo) Create(_ context.Context, provider *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(provider.ID) >= 0 {
		return fmt.Errorf("provider %s already exists", provider.ID)
	}
	now := time.Now()
	if provider.CreatedAt.IsZero() {
		provider.CreatedAt = now
	}
	provider.UpdatedAt = now
	r.providers = append(r.providers, clone(*provider))
	return nil
}

func (r *MemoryProviderRepo) AddBookedSlot(_ context.Context, id, date, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProviderNotFound, id)
	}
	p := &r.providers[i]
	if !slices.Contains(p.BookedSlots[date], slot) {
		p.BookedSlots[date] = append(p.BookedSlots[date], slot)
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryProviderRepo) RemoveBookedSlot(_ context.Context, id, date, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProviderNotFound, id)
	}
	p := &r.providers[i]
	p.BookedSlots[date] = slices.DeleteFunc(p.BookedSlots[date], func(v string) bool { return v == slot })
	if len(p.BookedSlots[date]) == 0 {
		delete(p.BookedSlots, date)
	}
	p.UpdatedAt = time.Now()
	return nil
}
