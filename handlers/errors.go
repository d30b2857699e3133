package handlers

import (
	"errors"
	"net/http"

	"medconnect/services/appointments"
	"medconnect/services/booking"
	"medconnect/services/location"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONErrorCode(c, http.StatusBadRequest, "validation_failed", verr.Message, verr.Field)
	case errors.Is(err, location.ErrInvalidCoordinate):
		utils.JSONErrorCode(c, http.StatusBadRequest, "invalid_coordinate", "Invalid coordinate", err.Error())
	case errors.Is(err, booking.ErrStaleSlot):
		utils.JSONErrorCode(c, http.StatusConflict, "stale_slot", "Time slot is no longer available", "Please choose another time")
	case errors.Is(err, booking.ErrProviderNotFound):
		utils.JSONError(c, http.StatusNotFound, "Provider not found", err.Error())
	case errors.Is(err, booking.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking session not found or expired", "")
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
	case errors.Is(err, location.ErrGeocodingFailure):
		utils.JSONErrorCode(c, http.StatusBadGateway, "geocoding_failed", "Could not resolve address", err.Error())
	default:
		getLogger(c).Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func badRequest(c *gin.Context, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	utils.JSONError(c, http.StatusBadRequest, message, details)
}
