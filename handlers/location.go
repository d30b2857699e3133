package handlers

import (
	"net/http"
	"strings"
	"time"

	"medconnect/metrics"
	"medconnect/middleware"
	"medconnect/models"
	"medconnect/services/booking"
	"medconnect/services/location"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LocationHandler manages where the searching client is.
type LocationHandler struct {
	Geocoder location.Geocoder
	Store    location.Store
	Metrics  *metrics.BookingMetrics
}

func NewLocationHandler(geocoder location.Geocoder, store location.Store, m *metrics.BookingMetrics) *LocationHandler {
	return &LocationHandler{Geocoder: geocoder, Store: store, Metrics: m}
}

// GeocodeHandler handles POST /api/location/geocode. The resolved address becomes the
// client's current location.
func (h *LocationHandler) GeocodeHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	var input struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Address) == "" {
		badRequest(c, "Missing required field: address", err)
		return
	}

	loc, err := location.ResolveAddress(c.Request.Context(), h.Geocoder, input.Address)
	if err != nil {
		h.Metrics.ObserveGeocode("failed")
		respondError(c, err)
		return
	}
	h.Metrics.ObserveGeocode("ok")

	if err := h.Store.Update(c.Request.Context(), client.ID, loc); err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Debug("Address geocoded", zap.String("clientId", client.ID), zap.String("address", loc.Address))
	c.JSON(http.StatusOK, loc)
}

// GetLocationHandler handles GET /api/location.
func (h *LocationHandler) GetLocationHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	loc, err := h.Store.Current(c.Request.Context(), client.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if loc == nil {
		utils.JSONError(c, http.StatusNotFound, "No location set", "")
		return
	}
	c.JSON(http.StatusOK, loc)
}

// PutLocationHandler handles PUT /api/location with coordinates granted by the device or
// picked from history.
func (h *LocationHandler) PutLocationHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	var input struct {
		Latitude  *float64              `json:"latitude" binding:"required"`
		Longitude *float64              `json:"longitude" binding:"required"`
		Address   string                `json:"address"`
		Source    models.LocationSource `json:"source"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input", err)
		return
	}
	if input.Source == "" {
		input.Source = models.LocationSourceGPS
	}
	if input.Source != models.LocationSourceGPS && input.Source != models.LocationSourceManual {
		respondError(c, booking.NewValidationError("source", "source must be %q or %q", models.LocationSourceGPS, models.LocationSourceManual))
		return
	}

	loc := models.UserLocation{
		Coordinate: models.Coordinate{Latitude: *input.Latitude, Longitude: *input.Longitude},
		Address:    strings.TrimSpace(input.Address),
		Source:     input.Source,
		UpdatedAt:  time.Now(),
	}
	if err := location.ValidateCoordinate(loc.Coordinate); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.Update(c.Request.Context(), client.ID, loc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// ClearLocationHandler handles DELETE /api/location.
func (h *LocationHandler) ClearLocationHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	if err := h.Store.Clear(c.Request.Context(), client.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location cleared"})
}

// HistoryHandler handles GET /api/location/history.
func (h *LocationHandler) HistoryHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	history, err := h.Store.History(c.Request.Context(), client.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": history})
}

// DetectHandler handles GET /api/location/detect using the caller's IP location.
func (h *LocationHandler) DetectHandler(c *gin.Context) {
	geo, ok := middleware.GeoLocationFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Location could not be determined", "Enter an address instead")
		return
	}
	loc, err := geo.UserLocation(time.Now())
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Location could not be determined", err.Error())
		return
	}
	c.JSON(http.StatusOK, loc)
}
