package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"medconnect/models"
	"medconnect/services/location"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrNoIPLocation means the caller's IP cannot be placed on a map.
var ErrNoIPLocation = errors.New("ip geolocation unavailable")

const geoLocationContextKey = "geoLocation"

// GeoLocation represents the geolocation information for an IP.
type GeoLocation struct {
	IP          string  `json:"ip"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	Country     string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
	// Error and Reason are set by ipapi.co when the lookup was refused.
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// Label renders "City, Region, Country" skipping empty parts.
func (g GeoLocation) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{g.City, g.Region, g.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// UserLocation converts the lookup into a device-sourced location.
func (g GeoLocation) UserLocation(now time.Time) (models.UserLocation, error) {
	coord := models.Coordinate{Latitude: g.Latitude, Longitude: g.Longitude}
	if err := location.ValidateCoordinate(coord); err != nil {
		return models.UserLocation{}, err
	}
	return models.UserLocation{
		Coordinate: coord,
		Address:    g.Label(),
		Source:     models.LocationSourceGPS,
		UpdatedAt:  now,
	}, nil
}

// IPLocator looks up IPs on ipapi.co and caches the answers by IP.
type IPLocator struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger

	mu    sync.RWMutex
	cache map[string]*GeoLocation
}

func NewIPLocator(logger *zap.Logger) *IPLocator {
	return &IPLocator{
		BaseURL:    "https://ipapi.co",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		Logger:     logger,
		cache:      make(map[string]*GeoLocation),
	}
}

// isPrivateIP checks if an IP is private or loopback.
func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast()
}

// Locate returns the cached or freshly fetched location of ip. Private and loopback
// addresses are never sent out.
func (l *IPLocator) Locate(ctx context.Context, ip string) (*GeoLocation, error) {
	if ip == "" || isPrivateIP(ip) {
		return nil, fmt.Errorf("%w: %q is not a public address", ErrNoIPLocation, ip)
	}

	l.mu.RLock()
	geo, exists := l.cache[ip]
	l.mu.RUnlock()
	if exists {
		return geo, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", l.BaseURL, ip), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoIPLocation, err)
	}
	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrNoIPLocation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrNoIPLocation, resp.StatusCode)
	}
	var body GeoLocation
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrNoIPLocation, err)
	}
	if body.Error {
		return nil, fmt.Errorf("%w: %s", ErrNoIPLocation, body.Reason)
	}
	if body.IP == "" {
		body.IP = ip
	}

	l.mu.Lock()
	if l.cache == nil {
		l.cache = make(map[string]*GeoLocation)
	}
	l.cache[ip] = &body
	l.mu.Unlock()
	return &body, nil
}

// GeolocationMiddleware attaches the caller's IP location to the context when it can be
// determined. Lookup failures never fail the request.
func GeolocationMiddleware(locator *IPLocator) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := locator.Logger
		if logger == nil {
			logger = zap.L()
		}

		clientIP := getClientIP(c)
		geo, err := locator.Locate(c.Request.Context(), clientIP)
		if err != nil {
			logger.Debug("GeolocationMiddleware: no location for client", zap.String("ip", clientIP), zap.Error(err))
			c.Next()
			return
		}

		c.Set(geoLocationContextKey, geo)
		c.Next()
	}
}

// GeoLocationFromContext returns the location set by GeolocationMiddleware.
func GeoLocationFromContext(c *gin.Context) (*GeoLocation, bool) {
	raw, exists := c.Get(geoLocationContextKey)
	if !exists {
		return nil, false
	}
	geo, ok := raw.(*GeoLocation)
	return geo, ok && geo != nil
}
