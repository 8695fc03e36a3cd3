package middleware

import (
	"bytes"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDMiddleware ensures every request has a request_id available in headers and context
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// maxLoggedBody caps how much of a response is kept for the log line.
const maxLoggedBody = 4096

func (w bodyLogWriter) Write(b []byte) (int, error) {
	if w.body != nil && w.body.Len() < maxLoggedBody {
		rest := maxLoggedBody - w.body.Len()
		if len(b) < rest {
			rest = len(b)
		}
		w.body.Write(b[:rest])
	}
	return w.ResponseWriter.Write(b)
}

// RequestLoggingMiddleware logs request start/finish and any error responses with context fields
func RequestLoggingMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		blw := &bodyLogWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = blw

		logger.Debugw("request started", append(requestFields(c), "user_agent", c.Request.UserAgent())...)

		c.Next()

		status := c.Writer.Status()
		fields := append(requestFields(c),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		// Only JSON bodies are logged; previews answer with image bytes.
		response := ""
		if strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json") {
			response = blw.body.String()
		}
		if status >= 500 {
			logger.Errorw("request completed with server error", append(fields, "response", response)...)
			return
		}
		if status >= 400 {
			logger.Warnw("request completed with client error", append(fields, "response", response)...)
			return
		}
		logger.Infow("request completed", fields...)
	}
}

// requestFields are the key/value pairs shared by every request log line.
// user_uid is empty until AuthMiddleware has run.
func requestFields(c *gin.Context) []interface{} {
	return []interface{}{
		"request_id", c.GetString("request_id"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"query", c.Request.URL.RawQuery,
		"client_ip", c.ClientIP(),
		"user_uid", c.GetString(ContextUID),
	}
}

// RecoveryMiddleware converts panics to 500 responses and logs stack traces with context
func RecoveryMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("panic recovered", append(requestFields(c),
					"panic", r,
					"stack", string(debug.Stack()),
				)...)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "request_id": c.GetString("request_id")})
			}
		}()
		c.Next()
	}
}

// CORSMiddleware allows the console front end to call the API from its own
// origin.
func CORSMiddleware(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Request-ID, Authorization")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
