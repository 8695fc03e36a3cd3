package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"io.winapps.clubconsole/internal/content"
	models "io.winapps.clubconsole/internal/models/login"
	"io.winapps.clubconsole/internal/session"
)

type AuthHandler struct {
	gate       *session.Gate
	sessions   session.Registry
	workspaces *content.Workspaces
	sessionTTL time.Duration
	logger     *zap.SugaredLogger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(gate *session.Gate, sessions session.Registry, workspaces *content.Workspaces, sessionTTL time.Duration, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		gate:       gate,
		sessions:   sessions,
		workspaces: workspaces,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Login signs the allowed account in and issues a console session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ctx := c.Request.Context()
	id, err := h.gate.Login(ctx, req.Email, req.Password)
	if errors.Is(err, session.ErrUnauthorized) {
		logWithContext(h.logger, c, "warn", "unauthorized login attempt")
		c.JSON(http.StatusForbidden, gin.H{"error": session.MsgUnauthorized})
		return
	}
	if err != nil {
		h.logError(c, err, "login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": session.MsgLoginFailed})
		return
	}

	s := &session.Session{
		ID:        uuid.NewString(),
		UID:       id.UID,
		Email:     id.Email,
		IDToken:   id.IDToken,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.sessions.Save(ctx, s); err != nil {
		h.logError(c, err, "failed to save session", "user_uid", id.UID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	h.workspaces.Open(s.ID)

	logWithContext(h.logger, c, "info", "console session started", "user_uid", id.UID)
	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     s.ID,
		UID:       s.UID,
		Email:     s.Email,
		ExpiresAt: s.CreatedAt.Add(h.sessionTTL),
		Redirect:  "/console",
	})
}
