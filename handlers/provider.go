package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	providerRepo "medconnect/database/repository/provider"
	"medconnect/middleware"
	"medconnect/models"
	"medconnect/services/booking"
	"medconnect/services/location"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProviderHandler serves the provider directory and provider availability.
type ProviderHandler struct {
	Matching  booking.MatchingService
	Providers providerRepo.ProviderRepository
	Booking   booking.BookingSessionService
	// Locations supplies the saved location of an identified caller who searches without
	// coordinates. Nil disables the fallback.
	Locations location.Store
}

func NewProviderHandler(matching booking.MatchingService, providers providerRepo.ProviderRepository, bookingSvc booking.BookingSessionService, locations location.Store) *ProviderHandler {
	return &ProviderHandler{Matching: matching, Providers: providers, Booking: bookingSvc, Locations: locations}
}

// searchLocation prefers explicit coordinates and falls back to the caller's saved location.
func (h *ProviderHandler) searchLocation(c *gin.Context) (*models.UserLocation, error) {
	loc, err := parseUserLocation(c)
	if err != nil || loc != nil || h.Locations == nil {
		return loc, err
	}
	client, ok := middleware.ClientFromContext(c)
	if !ok {
		return nil, nil
	}
	saved, err := h.Locations.Current(c.Request.Context(), client.ID)
	if err != nil {
		getLogger(c).Warn("Saved location unavailable for search", zap.String("clientId", client.ID), zap.Error(err))
		return nil, nil
	}
	return saved, nil
}

// parseUserLocation reads lat/lng query parameters. Both absent means no location.
func parseUserLocation(c *gin.Context) (*models.UserLocation, error) {
	latRaw, lngRaw := strings.TrimSpace(c.Query("lat")), strings.TrimSpace(c.Query("lng"))
	if latRaw == "" && lngRaw == "" {
		return nil, nil
	}
	if latRaw == "" || lngRaw == "" {
		return nil, booking.NewValidationError("location", "lat and lng must be given together")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, booking.NewValidationError("lat", "invalid latitude %q", latRaw)
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, booking.NewValidationError("lng", "invalid longitude %q", lngRaw)
	}
	coord := models.Coordinate{Latitude: lat, Longitude: lng}
	if err := location.ValidateCoordinate(coord); err != nil {
		return nil, err
	}
	return &models.UserLocation{
		Coordinate: coord,
		Address:    strings.TrimSpace(c.Query("address")),
		Source:     models.LocationSourceGPS,
	}, nil
}

// SearchProvidersHandler handles GET /api/providers.
func (h *ProviderHandler) SearchProvidersHandler(c *gin.Context) {
	loc, err := h.searchLocation(c)
	if err != nil {
		respondError(c, err)
		return
	}
	sortKey, err := booking.ParseSortKey(c.Query("sort"))
	if err != nil {
		respondError(c, err)
		return
	}
	var radius float64
	if raw := strings.TrimSpace(c.Query("radius")); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			respondError(c, booking.NewValidationError("radius", "radius must be a non-negative number of miles"))
			return
		}
	}

	ranked, err := h.Matching.MatchProviders(c.Request.Context(), booking.MatchCriteria{
		Query:       c.Query("q"),
		Specialty:   c.Query("specialty"),
		Location:    loc,
		RadiusMiles: radius,
		SortBy:      sortKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": ranked, "count": len(ranked), "sort": sortKey})
}

// GetProviderHandler handles GET /api/providers/:id.
func (h *ProviderHandler) GetProviderHandler(c *gin.Context) {
	id := c.Param("id")
	provider, err := h.Providers.GetByID(c.Request.Context(), id)
	if err != nil {
		getLogger(c).Debug("Provider lookup failed", zap.String("id", id), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

// CalendarHandler handles GET /api/providers/:id/calendar?year=&month=&selected=.
func (h *ProviderHandler) CalendarHandler(c *gin.Context) {
	var view booking.MonthView
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, booking.NewValidationError("year", "invalid year %q", raw))
			return
		}
		view.Year = year
	}
	if raw := c.Query("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, booking.NewValidationError("month", "invalid month %q", raw))
			return
		}
		view.Month = time.Month(month)
	}
	if (view.Year == 0) != (view.Month == 0) {
		respondError(c, booking.NewValidationError("month", "year and month must be given together"))
		return
	}

	cal, err := h.Booking.Calendar(c.Request.Context(), c.Param("id"), view, strings.TrimSpace(c.Query("selected")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// SlotsHandler handles GET /api/providers/:id/slots?date=YYYY-MM-DD.
func (h *ProviderHandler) SlotsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		badRequest(c, "Missing required query parameter: date", nil)
		return
	}
	slots, err := h.Booking.Slots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}
