package handlers

import (
	"net/http"

	"medconnect/middleware"
	"medconnect/models"
	"medconnect/services/booking"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the booking session flow and stateless confirmation.
type BookingHandler struct {
	Service booking.BookingSessionService
}

func NewBookingHandler(svc booking.BookingSessionService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func requireClient(c *gin.Context) (models.Client, bool) {
	client, ok := middleware.ClientFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Client not authenticated", "")
	}
	return client, ok
}

// ownSession loads the session and checks that it belongs to the caller. Sessions of other
// clients are reported as missing.
func (h *BookingHandler) ownSession(c *gin.Context) (string, bool) {
	client, ok := requireClient(c)
	if !ok {
		return "", false
	}
	sessionID := c.Param("sessionID")
	resp, err := h.Service.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	if resp.Session.Client.ID != client.ID {
		respondError(c, booking.ErrSessionNotFound)
		return "", false
	}
	return sessionID, true
}

// AppointmentTypesHandler handles GET /api/booking/appointment-types.
func (h *BookingHandler) AppointmentTypesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": booking.AppointmentTypes})
}

// StartSessionHandler handles POST /api/booking/session.
func (h *BookingHandler) StartSessionHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	var input struct {
		ProviderID string `json:"providerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input", err)
		return
	}
	resp, err := h.Service.StartSession(c.Request.Context(), client, input.ProviderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSessionHandler handles GET /api/booking/session/:sessionID.
func (h *BookingHandler) GetSessionHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	resp, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if resp.Session.Client.ID != client.ID {
		respondError(c, booking.ErrSessionNotFound)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelSessionHandler handles DELETE /api/booking/session/:sessionID.
func (h *BookingHandler) CancelSessionHandler(c *gin.Context) {
	sessionID, ok := h.ownSession(c)
	if !ok {
		return
	}
	if err := h.Service.CancelSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking session cancelled"})
}

// NavigateMonthHandler handles PUT /api/booking/session/:sessionID/month.
func (h *BookingHandler) NavigateMonthHandler(c *gin.Context) {
	sessionID, ok := h.ownSession(c)
	if !ok {
		return
	}
	var input struct {
		Delta int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input", err)
		return
	}
	resp, err := h.Service.NavigateMonth(c.Request.Context(), sessionID, input.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SelectDateHandler handles PUT /api/booking/session/:sessionID/date.
func (h *BookingHandler) SelectDateHandler(c *gin.Context) {
	sessionID, ok := h.ownSession(c)
	if !ok {
		return
	}
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input", err)
		return
	}
	resp, err := h.Service.SelectDate(c.Request.Context(), sessionID, input.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SelectTimeHandler handles PUT /api/booking/session/:sessionID/time.
func (h *BookingHandler) SelectTimeHandler(c *gin.Context) {
	sessionID, ok := h.ownSession(c)
	if !ok {
		return
	}
	var input struct {
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input", err)
		return
	}
	resp, err := h.Service.SelectTime(c.Request.Context(), sessionID, input.Time)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmSessionHandler handles POST /api/booking/session/:sessionID/confirm.
func (h *BookingHandler) ConfirmSessionHandler(c *gin.Context) {
	sessionID, ok := h.ownSession(c)
	if !ok {
		return
	}
	var input struct {
		AppointmentType string `json:"type" binding:"required"`
		Notes           string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input", err)
		return
	}
	resp, err := h.Service.ConfirmSession(c.Request.Context(), sessionID, input.AppointmentType, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ConfirmBookingHandler handles POST /api/booking/confirm.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	var input models.ConfirmBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input", err)
		return
	}
	appt, err := h.Service.Confirm(c.Request.Context(), client, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": appt, "message": "Appointment confirmed"})
}
