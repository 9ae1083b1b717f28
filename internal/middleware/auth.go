package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserIDKey is the gin context key holding the authenticated user id. The
// value doubles as the actor on activity records written for the request.
const UserIDKey = "user_id"

// authTimingFloor is the minimum response time for failed auth to prevent
// timing oracles that could distinguish valid from invalid API keys.
const authTimingFloor = 50 * time.Millisecond

// UserLookup is the interface for resolving a user by API key.
type UserLookup interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (string, error)
}

// truncateKey returns at most the first 4 characters of key followed by "...".
func truncateKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return key
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware returns Gin middleware that authenticates requests via
// Bearer token and stores the resolved user id on the context.
func AuthMiddleware(lookup UserLookup, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		apiKey := ExtractBearerToken(c)
		if apiKey == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		userID, err := lookup.GetUserByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			logAuthFailure(log, c, apiKey)
			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid api key")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// ExtractBearerToken extracts the API key from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context, apiKey string) {
	log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString(RequestIDKey),
		"key_prefix": truncateKey(apiKey),
	}).Warn("authentication failed: invalid api key")
}
