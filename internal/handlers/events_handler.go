package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	models "io.winapps.clubconsole/internal/models/list_content"
	promptmodels "io.winapps.clubconsole/internal/models/prompt"
)

func (h *ConsoleHandler) ListEvents(c *gin.Context) {
	events, err := h.workspace(c).Events.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load events")
		return
	}
	c.JSON(http.StatusOK, models.ListEventsResponse{Events: events, Count: len(events)})
}

func (h *ConsoleHandler) GetEvent(c *gin.Context) {
	event, err := h.workspace(c).Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to load event")
		return
	}
	c.JSON(http.StatusOK, models.GetEventResponse{Event: event})
}

// DeleteEvent opens the confirmation prompt; the event and its images are
// deleted when the prompt is confirmed.
func (h *ConsoleHandler) DeleteEvent(c *gin.Context) {
	prompt, err := h.workspace(c).Events.RequestDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to request event deletion")
		return
	}
	c.JSON(http.StatusAccepted, promptmodels.PromptResponse{Prompt: prompt})
}
