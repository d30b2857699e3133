package booking

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	providerRepo "medconnect/database/repository/provider"
	"medconnect/metrics"
	"medconnect/models"
	"medconnect/services/location"

	"go.uber.org/zap"
)

// SortKey selects how ranked providers are ordered.
type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByRating   SortKey = "rating"
	SortByPrice    SortKey = "price"
)

// ParseSortKey validates a user-supplied sort key. Empty means distance.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case "":
		return SortByDistance, nil
	case SortByDistance, SortByRating, SortByPrice:
		return key, nil
	default:
		return "", NewValidationError("sort", "unknown sort key %q", s)
	}
}

// FilterByRadius keeps providers within radiusMiles of loc. A nil loc leaves the list
// unchanged.
func FilterByRadius(providers []models.Provider, loc *models.UserLocation, radiusMiles float64) []models.Provider {
	if loc == nil {
		return providers
	}
	out := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		if location.Distance(loc.Coordinate, p.Coordinate) <= radiusMiles {
			out = append(out, p)
		}
	}
	return out
}

// Rank decorates providers with their distance from loc and orders them by key. Sorting
// by distance without a location keeps input order. All sorts are stable.
func Rank(providers []models.Provider, loc *models.UserLocation, key SortKey) []models.RankedProvider {
	ranked := make([]models.RankedProvider, len(providers))
	for i, p := range providers {
		ranked[i] = models.RankedProvider{Provider: p}
		if loc != nil {
			d := location.Distance(loc.Coordinate, p.Coordinate)
			ranked[i].DistanceMiles = &d
			ranked[i].DistanceLabel = location.FormatDistance(d)
		}
	}

	switch key {
	case SortByDistance:
		if loc != nil {
			slices.SortStableFunc(ranked, func(a, b models.RankedProvider) int {
				return compareFloat(*a.DistanceMiles, *b.DistanceMiles)
			})
		}
	case SortByRating:
		slices.SortStableFunc(ranked, func(a, b models.RankedProvider) int {
			return compareFloat(b.Rating, a.Rating)
		})
	case SortByPrice:
		slices.SortStableFunc(ranked, func(a, b models.RankedProvider) int {
			pa, okA := parsePrice(a.Price)
			pb, okB := parsePrice(b.Price)
			switch {
			case okA && okB:
				return compareFloat(pa, pb)
			case okA:
				return -1
			case okB:
				return 1
			}
			return 0
		})
	}
	return ranked
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// parsePrice extracts the numeric magnitude of a price label such as "$150" or
// "USD 1,200.50".
func parsePrice(price string) (float64, bool) {
	var b strings.Builder
scan:
	for _, r := range price {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',':
		default:
			if b.Len() > 0 {
				break scan
			}
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SearchProviders applies the free-text and specialty filters shown on the provider
// search page. Both are optional.
func SearchProviders(providers []models.Provider, query, specialty string) []models.Provider {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		if specialty != "" && p.Specialty != specialty {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Specialty), q) &&
			!strings.Contains(strings.ToLower(p.Location), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MatchCriteria describes one provider search.
type MatchCriteria struct {
	Query     string
	Specialty string
	// Location is nil when the user has not shared or entered one.
	Location    *models.UserLocation
	RadiusMiles float64
	SortBy      SortKey
}

// MatchingService defines the interface for matching providers.
type MatchingService interface {
	MatchProviders(ctx context.Context, criteria MatchCriteria) ([]models.RankedProvider, error)
}

// DefaultMatchingService implements MatchingService over the provider catalog.
type DefaultMatchingService struct {
	ProviderRepo       providerRepo.ProviderRepository
	DefaultRadiusMiles float64
	Metrics            *metrics.BookingMetrics
	Logger             *zap.Logger
}

// MatchProviders runs search, radius filter and ranking. When no providers match, it
// returns an empty list rather than an error.
func (s *DefaultMatchingService) MatchProviders(ctx context.Context, criteria MatchCriteria) ([]models.RankedProvider, error) {
	if criteria.Location != nil {
		if err := location.ValidateCoordinate(criteria.Location.Coordinate); err != nil {
			return nil, err
		}
	}
	if criteria.SortBy == "" {
		criteria.SortBy = SortByDistance
	}
	radius := criteria.RadiusMiles
	if radius <= 0 {
		radius = s.DefaultRadiusMiles
	}

	providers, err := s.ProviderRepo.Search(ctx, providerRepo.ProviderSearchCriteria{
		Query:     criteria.Query,
		Specialty: criteria.Specialty,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}

	providers = SearchProviders(providers, criteria.Query, criteria.Specialty)
	if radius > 0 {
		providers = FilterByRadius(providers, criteria.Location, radius)
	}
	ranked := Rank(providers, criteria.Location, criteria.SortBy)

	s.Metrics.ObserveSearch(string(criteria.SortBy), criteria.Location != nil, len(ranked))
	if s.Logger != nil {
		s.Logger.Debug("Matched providers",
			zap.String("query", criteria.Query),
			zap.String("specialty", criteria.Specialty),
			zap.String("sort", string(criteria.SortBy)),
			zap.Float64("radius", radius),
			zap.Int("results", len(ranked)))
	}
	return ranked, nil
}
