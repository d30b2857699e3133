package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP resolves the caller address used for rate limiting and IP geolocation.
// Proxy headers are honored only when they carry a parseable address.
func getClientIP(c *gin.Context) string {
	for _, raw := range strings.Split(c.GetHeader("X-Forwarded-For"), ",") {
		if ip := parseIP(raw); ip != "" {
			return ip
		}
	}
	if ip := parseIP(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}

	remote := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if ip := parseIP(remote); ip != "" {
		return ip
	}
	return remote
}

func parseIP(raw string) string {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return ""
	}
	return ip.String()
}
