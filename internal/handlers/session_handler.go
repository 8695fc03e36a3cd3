package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	models "io.winapps.clubconsole/internal/models/session"
	"io.winapps.clubconsole/internal/session"
)

// Session reports which view the browser should render. It is public: a
// missing or stale token simply yields the login view.
func (h *AuthHandler) Session(c *gin.Context) {
	state := h.gate.State()
	if state == session.StateUnknown {
		c.JSON(http.StatusOK, models.SessionResponse{State: string(state), View: "loading"})
		return
	}

	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && token != "" {
		s, err := h.sessions.Get(c.Request.Context(), token)
		if err == nil && h.gate.Allowed(s.Identity()) {
			c.JSON(http.StatusOK, models.SessionResponse{
				State: string(session.StateAuthorized),
				Email: s.Email,
				View:  "console",
			})
			return
		}
	}

	c.JSON(http.StatusOK, models.SessionResponse{State: string(session.StateUnauthenticated), View: "login"})
}
