package middleware

import (
	"net/http"
	"strings"

	"medconnect/models"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const clientContextKey = "client"

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

func setClient(c *gin.Context, client models.Client) {
	c.Set(clientContextKey, client)
	c.Set("clientID", client.ID)
}

// JWTAuthClientMiddleware accepts HMAC-signed bearer tokens issued by the auth service
// and puts the client they name into the context.
func JWTAuthClientMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		client, err := utils.ExtractClientFromToken(secret, tokenString)
		if err != nil {
			zap.L().Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		setClient(c, client)
		c.Next()
	}
}

// OptionalJWTAuthClientMiddleware identifies the client when a valid bearer token is
// present and lets anonymous or invalid requests through unidentified.
func OptionalJWTAuthClientMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			client, err := utils.ExtractClientFromToken(secret, tokenString)
			if err == nil {
				setClient(c, client)
			} else {
				zap.L().Debug("Ignoring invalid bearer token on public route", zap.Error(err))
			}
		}
		c.Next()
	}
}

// ClientFromContext returns the client set by JWTAuthClientMiddleware.
func ClientFromContext(c *gin.Context) (models.Client, bool) {
	raw, exists := c.Get(clientContextKey)
	if !exists {
		return models.Client{}, false
	}
	client, ok := raw.(models.Client)
	return client, ok && client.ID != ""
}
