package booking

import (
	"context"
	"errors"
	"testing"

	providerRepo "medconnect/database/repository/provider"
	"medconnect/models"
	"medconnect/services/location"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var timesSquare = &models.UserLocation{
	Coordinate: models.Coordinate{Latitude: 40.7580, Longitude: -73.9855},
	Source:     models.LocationSourceGPS,
}

func ids(providers []models.Provider) []string {
	out := make([]string, len(providers))
	for i, p := range providers {
		out[i] = p.ID
	}
	return out
}

func rankedIDs(ranked []models.RankedProvider) []string {
	out := make([]string, len(ranked))
	for i, p := range ranked {
		out[i] = p.ID
	}
	return out
}

func TestFilterByRadiusProperty(t *testing.T) {
	catalog := providerRepo.MockCatalog()
	for _, radius := range []float64{0, 0.3, 0.5, 1, 2, 5, 50} {
		kept := map[string]bool{}
		for _, p := range FilterByRadius(catalog, timesSquare, radius) {
			kept[p.ID] = true
		}
		for _, p := range catalog {
			within := location.Distance(timesSquare.Coordinate, p.Coordinate) <= radius
			assert.Equal(t, within, kept[p.ID], "provider %s radius %v", p.ID, radius)
		}
	}
}

func TestFilterByRadiusWithoutLocation(t *testing.T) {
	catalog := providerRepo.MockCatalog()
	assert.Equal(t, ids(catalog), ids(FilterByRadius(catalog, nil, 0.1)))
}

func TestRankByDistance(t *testing.T) {
	ranked := Rank(providerRepo.MockCatalog(), timesSquare, SortByDistance)
	require.Len(t, ranked, 5)
	for i, r := range ranked {
		require.NotNil(t, r.DistanceMiles)
		assert.GreaterOrEqual(t, *r.DistanceMiles, 0.0)
		assert.NotEmpty(t, r.DistanceLabel)
		if i > 0 {
			assert.LessOrEqual(t, *ranked[i-1].DistanceMiles, *r.DistanceMiles)
		}
	}
	assert.Equal(t, "1", ranked[0].ID)
	assert.Equal(t, "3", ranked[4].ID)
}

func TestRankByDistanceWithoutLocationKeepsOrder(t *testing.T) {
	ranked := Rank(providerRepo.MockCatalog(), nil, SortByDistance)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, rankedIDs(ranked))
	for _, r := range ranked {
		assert.Nil(t, r.DistanceMiles)
	}
}

func TestRankByRatingStable(t *testing.T) {
	ranked := Rank(providerRepo.MockCatalog(), nil, SortByRating)
	assert.Equal(t, []string{"1", "3", "2", "5", "4"}, rankedIDs(ranked))
}

func TestRankByPrice(t *testing.T) {
	catalog := providerRepo.MockCatalog()
	catalog = append(catalog, models.Provider{ID: "free-text", Price: "Call for pricing"})
	ranked := Rank(catalog, timesSquare, SortByPrice)
	assert.Equal(t, []string{"2", "4", "1", "5", "3", "free-text"}, rankedIDs(ranked))
	assert.NotNil(t, ranked[0].DistanceMiles)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"$150":         150,
		"USD 1,200.50": 1200.5,
		"$99 / visit":  99,
		"80":           80,
	}
	for in, want := range cases {
		got, ok := parsePrice(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "free", "$1.2.3"} {
		_, ok := parsePrice(in)
		assert.False(t, ok, in)
	}
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortByDistance, "Rating": SortByRating, " price ": SortByPrice, "distance": SortByDistance} {
		got, err := ParseSortKey(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSortKey("popularity")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSearchProviders(t *testing.T) {
	catalog := providerRepo.MockCatalog()
	assert.Equal(t, []string{"2"}, ids(SearchProviders(catalog, "family", "")))
	assert.Equal(t, []string{"1"}, ids(SearchProviders(catalog, "", "Cardiology")))
	assert.Empty(t, SearchProviders(catalog, "chen", "Cardiology"))
	assert.Len(t, SearchProviders(catalog, "  ", ""), 5)
}

func TestMatchProviders(t *testing.T) {
	svc := &DefaultMatchingService{
		ProviderRepo:       providerRepo.NewMemoryProviderRepo(providerRepo.MockCatalog()),
		DefaultRadiusMiles: 50,
		Logger:             zap.NewNop(),
	}
	ctx := context.Background()

	all, err := svc.MatchProviders(ctx, MatchCriteria{Location: timesSquare})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "1", all[0].ID)

	near, err := svc.MatchProviders(ctx, MatchCriteria{Location: timesSquare, RadiusMiles: 2, SortBy: SortByRating})
	require.NoError(t, err)
	for _, r := range near {
		assert.LessOrEqual(t, *r.DistanceMiles, 2.0)
	}
	assert.NotContains(t, rankedIDs(near), "3")

	none, err := svc.MatchProviders(ctx, MatchCriteria{Query: "dentist"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	bad := &models.UserLocation{Coordinate: models.Coordinate{Latitude: 123}}
	_, err = svc.MatchProviders(ctx, MatchCriteria{Location: bad})
	assert.True(t, errors.Is(err, location.ErrInvalidCoordinate))
}
