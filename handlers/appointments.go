package handlers

import (
	"net/http"

	"medconnect/models"
	"medconnect/services/appointments"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler serves appointment listings and status changes.
type AppointmentHandler struct {
	Service appointments.AppointmentService
}

func NewAppointmentHandler(svc appointments.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

func (h *AppointmentHandler) list(c *gin.Context, criteria appointments.ListCriteria) {
	tab, err := appointments.ParseTab(c.Query("tab"))
	if err != nil {
		respondError(c, err)
		return
	}
	criteria.Tab = tab
	criteria.Query = c.Query("q")

	list, err := h.Service.List(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListClientAppointmentsHandler handles GET /api/appointments?tab=&q=.
func (h *AppointmentHandler) ListClientAppointmentsHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	h.list(c, appointments.ListCriteria{ClientID: client.ID})
}

// ListProviderAppointmentsHandler handles GET /api/providers/:id/appointments?tab=&q=.
// Only the provider named by the token subject may read its schedule.
func (h *AppointmentHandler) ListProviderAppointmentsHandler(c *gin.Context) {
	caller, ok := requireClient(c)
	if !ok {
		return
	}
	providerID := c.Param("id")
	if caller.ID != providerID {
		utils.JSONErrorCode(c, http.StatusForbidden, "forbidden", "Not allowed to view this provider's appointments", "")
		return
	}
	h.list(c, appointments.ListCriteria{ProviderID: providerID})
}

// GetAppointmentHandler handles GET /api/appointments/:id.
func (h *AppointmentHandler) GetAppointmentHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	appt, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if appt.ClientID != client.ID {
		respondError(c, appointments.ErrAppointmentNotFound)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// UpdateStatusHandler handles PATCH /api/appointments/:id/status.
func (h *AppointmentHandler) UpdateStatusHandler(c *gin.Context) {
	client, ok := requireClient(c)
	if !ok {
		return
	}
	var input models.StatusChangeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input", err)
		return
	}
	appt, err := h.Service.UpdateStatus(c.Request.Context(), appointments.StatusChange{
		AppointmentID: c.Param("id"),
		ClientID:      client.ID,
		Status:        input.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
