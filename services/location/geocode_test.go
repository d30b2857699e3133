package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medconnect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCityTableGeocoder(t *testing.T) {
	g := CityTableGeocoder{}
	ctx := context.Background()

	got, err := g.Geocode(ctx, "  123 Main St, Chicago, IL ")
	require.NoError(t, err)
	assert.Equal(t, chicago, got)

	got, err = g.Geocode(ctx, "Los Angeles")
	require.NoError(t, err)
	assert.Equal(t, losAngeles, got)

	got, err = g.Geocode(ctx, "Somewhere unknown")
	require.NoError(t, err)
	assert.Equal(t, newYork, got)

	_, err = g.Geocode(ctx, "   ")
	assert.True(t, errors.Is(err, ErrGeocodingFailure))
}

func TestGoogleGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		switch r.URL.Query().Get("address") {
		case "1600 Amphitheatre Parkway":
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Mountain View","geometry":{"location":{"lat":37.422,"lng":-122.084}}}]}`))
		case "bad coords":
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":137.4,"lng":0}}}]}`))
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		}
	}))
	defer srv.Close()

	g := NewGoogleGeocoder("test-key")
	g.BaseURL = srv.URL
	ctx := context.Background()

	got, err := g.Geocode(ctx, "1600 Amphitheatre Parkway")
	require.NoError(t, err)
	assert.Equal(t, models.Coordinate{Latitude: 37.422, Longitude: -122.084}, got)

	for _, addr := range []string{"nowhere", "bad coords", "boom", ""} {
		_, err := g.Geocode(ctx, addr)
		assert.True(t, errors.Is(err, ErrGeocodingFailure), "address %q", addr)
	}

	_, err = NewGoogleGeocoder("").Geocode(ctx, "Chicago")
	assert.True(t, errors.Is(err, ErrGeocodingFailure))
}

type failingGeocoder struct{}

func (failingGeocoder) Geocode(context.Context, string) (models.Coordinate, error) {
	return models.Coordinate{}, errors.New("upstream down")
}

func TestFallbackGeocoder(t *testing.T) {
	g := &FallbackGeocoder{Primary: failingGeocoder{}, Fallback: CityTableGeocoder{}, Logger: zap.NewNop()}
	got, err := g.Geocode(context.Background(), "Houston, TX")
	require.NoError(t, err)
	assert.Equal(t, models.Coordinate{Latitude: 29.7604, Longitude: -95.3698}, got)

	_, err = (&FallbackGeocoder{Primary: failingGeocoder{}}).Geocode(context.Background(), "Houston")
	assert.Error(t, err)
}

func TestNewGeocoder(t *testing.T) {
	assert.IsType(t, CityTableGeocoder{}, NewGeocoder("", zap.NewNop()))
	assert.IsType(t, &FallbackGeocoder{}, NewGeocoder("key", zap.NewNop()))
}

func TestResolveAddress(t *testing.T) {
	loc, err := ResolveAddress(context.Background(), CityTableGeocoder{}, " Dallas ")
	require.NoError(t, err)
	assert.Equal(t, models.LocationSourceManual, loc.Source)
	assert.Equal(t, "Dallas", loc.Address)
	assert.Equal(t, 32.7767, loc.Latitude)

	_, err = ResolveAddress(context.Background(), failingGeocoder{}, "x")
	assert.True(t, errors.Is(err, ErrGeocodingFailure))
}
