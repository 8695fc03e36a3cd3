package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.clubconsole/internal/session"
)

// Context keys set for protected handlers.
const (
	ContextUID       = "uid"
	ContextEmail     = "email"
	ContextSessionID = "session_id"
	ContextSession   = "session"
)

// AuthMiddleware resolves the bearer token to a console session. The token
// is either a session ID issued at login or a Firebase ID token of the
// allowed account.
func AuthMiddleware(sessions session.Registry, gate *session.Gate, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with 'Bearer '"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		// Step 1: session issued by this service
		s, err := sessions.Get(ctx, token)
		if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
			logger.Errorw("session lookup failed", "request_id", c.GetString("request_id"), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			c.Abort()
			return
		}

		// Step 2: fall back to a provider ID token
		if s == nil {
			id, err := gate.Authorize(ctx, token)
			if errors.Is(err, session.ErrUnauthorized) {
				c.JSON(http.StatusForbidden, gin.H{"error": session.MsgUnauthorized})
				c.Abort()
				return
			}
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				c.Abort()
				return
			}
			s = &session.Session{ID: "uid:" + id.UID, UID: id.UID, Email: id.Email, IDToken: token}
		}

		c.Set(ContextUID, s.UID)
		c.Set(ContextEmail, s.Email)
		c.Set(ContextSessionID, s.ID)
		c.Set(ContextSession, s)
		c.Next()
	}
}

// CurrentSession returns the session set by AuthMiddleware.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
