package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medconnect/models"

	"go.uber.org/zap"
)

var ErrGeocodingFailure = errors.New("geocoding failed")

// Geocoder turns free-form address text into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

type cityCoordinate struct {
	name  string
	coord models.Coordinate
}

// cityTable is ordered so that the first match wins deterministically.
var cityTable = []cityCoordinate{
	{"new york", models.Coordinate{Latitude: 40.7128, Longitude: -74.0060}},
	{"los angeles", models.Coordinate{Latitude: 34.0522, Longitude: -118.2437}},
	{"chicago", models.Coordinate{Latitude: 41.8781, Longitude: -87.6298}},
	{"houston", models.Coordinate{Latitude: 29.7604, Longitude: -95.3698}},
	{"phoenix", models.Coordinate{Latitude: 33.4484, Longitude: -112.0740}},
	{"philadelphia", models.Coordinate{Latitude: 39.9526, Longitude: -75.1652}},
	{"san antonio", models.Coordinate{Latitude: 29.4241, Longitude: -98.4936}},
	{"san diego", models.Coordinate{Latitude: 32.7157, Longitude: -117.1611}},
	{"dallas", models.Coordinate{Latitude: 32.7767, Longitude: -96.7970}},
	{"san jose", models.Coordinate{Latitude: 37.3382, Longitude: -121.8863}},
}

// CityTableGeocoder resolves addresses mentioning one of ten large US cities. Anything
// else resolves to New York, so it is only suitable as a last-resort fallback or in tests.
type CityTableGeocoder struct{}

func (CityTableGeocoder) Geocode(_ context.Context, address string) (models.Coordinate, error) {
	normalized := strings.ToLower(strings.TrimSpace(address))
	if normalized == "" {
		return models.Coordinate{}, fmt.Errorf("%w: empty address", ErrGeocodingFailure)
	}
	for _, c := range cityTable {
		if strings.Contains(normalized, c.name) {
			return c.coord, nil
		}
	}
	return cityTable[0].coord, nil
}

// GoogleGeocoder calls the Google Maps Geocoding API.
type GoogleGeocoder struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// NewGoogleGeocoder creates a geocoder with a five second request timeout.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:     apiKey,
		BaseURL:    googleGeocodeURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type googleGeocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	if strings.TrimSpace(address) == "" {
		return models.Coordinate{}, fmt.Errorf("%w: empty address", ErrGeocodingFailure)
	}
	if g.APIKey == "" {
		return models.Coordinate{}, fmt.Errorf("%w: google api key not configured", ErrGeocodingFailure)
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: %v", ErrGeocodingFailure, err)
	}

	client := g.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: request failed: %v", ErrGeocodingFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinate{}, fmt.Errorf("%w: unexpected status %d", ErrGeocodingFailure, resp.StatusCode)
	}

	var body googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: decode response: %v", ErrGeocodingFailure, err)
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		return models.Coordinate{}, fmt.Errorf("%w: status %s %s", ErrGeocodingFailure, body.Status, body.ErrorMessage)
	}

	loc := body.Results[0].Geometry.Location
	coord := models.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}
	if err := ValidateCoordinate(coord); err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: %v", ErrGeocodingFailure, err)
	}
	return coord, nil
}

// FallbackGeocoder tries Primary and, when it fails, Fallback.
type FallbackGeocoder struct {
	Primary  Geocoder
	Fallback Geocoder
	Logger   *zap.Logger
}

func (f *FallbackGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	coord, err := f.Primary.Geocode(ctx, address)
	if err == nil {
		return coord, nil
	}
	if f.Fallback == nil {
		return models.Coordinate{}, err
	}
	if f.Logger != nil {
		f.Logger.Warn("primary geocoder failed, using fallback", zap.String("address", address), zap.Error(err))
	}
	return f.Fallback.Geocode(ctx, address)
}

// NewGeocoder picks the geocoder chain for the given Google API key.
func NewGeocoder(googleAPIKey string, logger *zap.Logger) Geocoder {
	if googleAPIKey == "" {
		return CityTableGeocoder{}
	}
	return &FallbackGeocoder{
		Primary:  NewGoogleGeocoder(googleAPIKey),
		Fallback: CityTableGeocoder{},
		Logger:   logger,
	}
}

// ResolveAddress geocodes address into a manual UserLocation.
func ResolveAddress(ctx context.Context, g Geocoder, address string) (models.UserLocation, error) {
	coord, err := g.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, ErrGeocodingFailure) {
			return models.UserLocation{}, err
		}
		return models.UserLocation{}, fmt.Errorf("%w: %v", ErrGeocodingFailure, err)
	}
	if err := ValidateCoordinate(coord); err != nil {
		return models.UserLocation{}, fmt.Errorf("%w: %v", ErrGeocodingFailure, err)
	}
	return models.UserLocation{
		Coordinate: coord,
		Address:    strings.TrimSpace(address),
		Source:     models.LocationSourceManual,
		UpdatedAt:  time.Now(),
	}, nil
}
