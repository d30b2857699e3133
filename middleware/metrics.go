package middleware

import (
	"strconv"
	"time"

	"medconnect/metrics"

	"github.com/gin-gonic/gin"
)

// RequestMetrics records the latency of every request by its route template.
func RequestMetrics(m *metrics.BookingMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
