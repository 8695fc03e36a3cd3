package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.clubconsole/internal/confirm"
	"io.winapps.clubconsole/internal/middleware"
	models "io.winapps.clubconsole/internal/models/prompt"
)

// Logout opens a confirmation prompt. Confirming it signs out with the
// provider, drops the session and tears the workspace down.
func (h *AuthHandler) Logout(c *gin.Context) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	w := h.workspaces.Open(s.ID)
	prompt := w.Prompts.Open(confirm.KindLogout, "Are you sure you want to log out?", func(ctx context.Context) error {
		if err := h.gate.Logout(ctx, s.Identity()); err != nil {
			h.logger.Errorw("provider sign-out failed", "user_uid", s.UID, "error", err)
		}
		if err := h.sessions.Delete(ctx, s.ID); err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
		h.workspaces.Close(s.ID)
		return nil
	}, nil)

	c.JSON(http.StatusOK, models.PromptResponse{Prompt: prompt})
}
