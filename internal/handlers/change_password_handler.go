package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.clubconsole/internal/identity"
	"io.winapps.clubconsole/internal/middleware"
	models "io.winapps.clubconsole/internal/models/change_password"
	"io.winapps.clubconsole/internal/session"
)

// ChangePassword handles the settings section's password form.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.gate.ChangePassword(c.Request.Context(), s.Identity(), req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	switch {
	case errors.Is(err, session.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "New passwords don't match"})
		return
	case errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	case err != nil:
		h.logError(c, err, "failed to change password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	logWithContext(h.logger, c, "info", "password changed")
	c.JSON(http.StatusOK, models.ChangePasswordResponse{Message: "Password updated successfully"})
}
