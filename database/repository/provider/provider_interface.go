package providerRepo

import (
	"context"
	"errors"

	"medconnect/models"
)

var ErrProviderNotFound = errors.New("provider not found")

// ProviderSearchCriteria narrows the catalog before any distance ranking happens.
type ProviderSearchCriteria struct {
	// Exact specialty, e.g. "Cardiology". Empty matches all.
	Specialty string
	// Case-insensitive substring of name, specialty or location label.
	Query string
}

// ProviderRepository defines methods for provider catalog access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// GetAll retrieves all providers in catalog order.
	GetAll(ctx context.Context) ([]models.Provider, error)
	// Search returns providers matching the criteria, in catalog order.
	Search(ctx context.Context, criteria ProviderSearchCriteria) ([]models.Provider, error)
	// Create inserts a new provider record.
	Create(ctx context.Context, provider *models.Provider) error
	// AddBookedSlot marks date/time as taken on the provider's schedule.
	AddBookedSlot(ctx context.Context, id, date, time string) error
	// RemoveBookedSlot frees date/time on the provider's schedule.
	RemoveBookedSlot(ctx context.Context, id, date, time string) error
}
