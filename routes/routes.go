package routes

import (
	"time"

	"medconnect/handlers"
	"medconnect/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterProviderRoutes registers the public provider directory and availability, plus
// the provider's own appointment schedule.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.GET("", middleware.OptionalJWTAuthClientMiddleware(hb.JWTSecret), hb.Providers.SearchProvidersHandler)
		api.GET("/:id", hb.Providers.GetProviderHandler)
		api.GET("/:id/calendar", hb.Providers.CalendarHandler)
		api.GET("/:id/slots", hb.Providers.SlotsHandler)
		api.GET("/:id/appointments", middleware.JWTAuthClientMiddleware(hb.JWTSecret), hb.Appointments.ListProviderAppointmentsHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.GET("/appointment-types", hb.Booking.AppointmentTypesHandler)

		// Protected routes (Require Authentication)
		protected := bookingGroup.Group("")
		protected.Use(middleware.JWTAuthClientMiddleware(hb.JWTSecret))
		protected.POST("/confirm", hb.Booking.ConfirmBookingHandler)
		protected.POST("/session", hb.Booking.StartSessionHandler)
		protected.GET("/session/:sessionID", hb.Booking.GetSessionHandler)
		protected.DELETE("/session/:sessionID", hb.Booking.CancelSessionHandler)
		protected.PUT("/session/:sessionID/month", hb.Booking.NavigateMonthHandler)
		protected.PUT("/session/:sessionID/date", hb.Booking.SelectDateHandler)
		protected.PUT("/session/:sessionID/time", hb.Booking.SelectTimeHandler)
		protected.POST("/session/:sessionID/confirm", hb.Booking.ConfirmSessionHandler)
	}
}

// RegisterAppointmentRoutes registers the client's appointment endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthClientMiddleware(hb.JWTSecret))
		api.GET("", hb.Appointments.ListClientAppointmentsHandler)
		api.GET("/:id", hb.Appointments.GetAppointmentHandler)
		api.PATCH("/:id/status", hb.Appointments.UpdateStatusHandler)
	}
}

// RegisterLocationRoutes registers user location endpoints.
func RegisterLocationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/location")
	{
		if hb.IPLocator != nil {
			api.GET("/detect", middleware.GeolocationMiddleware(hb.IPLocator), hb.Location.DetectHandler)
		} else {
			api.GET("/detect", hb.Location.DetectHandler)
		}

		protected := api.Group("")
		protected.Use(middleware.JWTAuthClientMiddleware(hb.JWTSecret))
		protected.GET("", hb.Location.GetLocationHandler)
		protected.PUT("", hb.Location.PutLocationHandler)
		protected.DELETE("", hb.Location.ClearLocationHandler)
		protected.GET("/history", hb.Location.HistoryHandler)
		protected.POST("/geocode", hb.Location.GeocodeHandler)
	}
}

// RegisterHealthRoute registers health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.RequestMetrics(hb.Metrics))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r)
	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterLocationRoutes(r, hb)
}
