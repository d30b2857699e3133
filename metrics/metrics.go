package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters/histograms for search and booking flows.
type BookingMetrics struct {
	searchTotal     *prometheus.CounterVec
	searchResults   prometheus.Histogram
	bookingTotal    *prometheus.CounterVec
	generatedSlots  prometheus.Histogram
	geocodeTotal    *prometheus.CounterVec
	reminderTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		searchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medconnect",
			Subsystem: "providers",
			Name:      "search_total",
			Help:      "Total provider searches by sort key",
		}, []string{"sort", "located"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medconnect",
			Subsystem: "providers",
			Name:      "search_results",
			Help:      "Number of providers returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		bookingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medconnect",
			Subsystem: "booking",
			Name:      "confirm_total",
			Help:      "Booking confirmations by outcome",
		}, []string{"outcome"}),
		generatedSlots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medconnect",
			Subsystem: "booking",
			Name:      "generated_slots",
			Help:      "Number of bookable slots generated for a date",
			Buckets:   []float64{0, 1, 4, 8, 12, 16, 24, 32, 48},
		}),
		geocodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medconnect",
			Subsystem: "location",
			Name:      "geocode_total",
			Help:      "Geocoding lookups by outcome",
		}, []string{"outcome"}),
		reminderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medconnect",
			Subsystem: "tasks",
			Name:      "reminder_total",
			Help:      "Appointment reminders by outcome",
		}, []string{"outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medconnect",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.searchTotal,
		m.searchResults,
		m.bookingTotal,
		m.generatedSlots,
		m.geocodeTotal,
		m.reminderTotal,
		m.requestDuration,
	)
	return m
}

func (m *BookingMetrics) ObserveSearch(sort string, located bool, results int) {
	if m == nil {
		return
	}
	label := "false"
	if located {
		label = "true"
	}
	m.searchTotal.WithLabelValues(sort, label).Inc()
	m.searchResults.Observe(float64(results))
}

// ObserveBooking records a confirmation outcome: "confirmed", "invalid", "stale" or "error".
func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSlots(count int) {
	if m == nil {
		return
	}
	m.generatedSlots.Observe(float64(count))
}

func (m *BookingMetrics) ObserveGeocode(outcome string) {
	if m == nil {
		return
	}
	m.geocodeTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveReminder(outcome string) {
	if m == nil {
		return
	}
	m.reminderTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
