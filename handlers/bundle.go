package handlers

import (
	"medconnect/metrics"
	"medconnect/middleware"
)

// HandlerBundle groups all endpoint handlers and the middleware they share.
type HandlerBundle struct {
	Providers    *ProviderHandler
	Booking      *BookingHandler
	Appointments *AppointmentHandler
	Location     *LocationHandler

	JWTSecret         []byte
	MaxRequestsPerMin int
	Metrics           *metrics.BookingMetrics
	// IPLocator is nil when IP geolocation is disabled.
	IPLocator *middleware.IPLocator
}
