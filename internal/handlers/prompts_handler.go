package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.clubconsole/internal/confirm"
	models "io.winapps.clubconsole/internal/models/prompt"
)

func (h *ConsoleHandler) GetPrompt(c *gin.Context) {
	prompt, err := h.workspace(c).Prompts.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to load prompt")
		return
	}
	c.JSON(http.StatusOK, models.PromptResponse{Prompt: prompt})
}

// ConfirmPrompt runs the guarded action. A failed action leaves the target
// in place and is reported both here and as a notice.
func (h *ConsoleHandler) ConfirmPrompt(c *gin.Context) {
	w := h.workspace(c)
	prompt, err := w.Prompts.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to load prompt")
		return
	}

	if err := w.Prompts.Confirm(c.Request.Context(), prompt.ID); err != nil {
		h.fail(c, err, "Failed to complete "+prompt.Kind)
		return
	}

	resp := models.ConfirmPromptResponse{Message: "Done"}
	if prompt.Kind == confirm.KindLogout {
		resp.Message = "Logged out"
		resp.Redirect = "/login"
	}
	logWithContext(h.logger, c, "info", "prompt confirmed", "kind", prompt.Kind)
	c.JSON(http.StatusOK, resp)
}

func (h *ConsoleHandler) CancelPrompt(c *gin.Context) {
	if err := h.workspace(c).Prompts.Cancel(c.Param("id")); err != nil {
		h.fail(c, err, "Failed to cancel prompt")
		return
	}
	c.Status(http.StatusNoContent)
}
