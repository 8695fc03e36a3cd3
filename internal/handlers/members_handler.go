package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	models "io.winapps.clubconsole/internal/models/list_content"
	promptmodels "io.winapps.clubconsole/internal/models/prompt"
)

func (h *ConsoleHandler) ListMembers(c *gin.Context) {
	q := c.Query("q")
	members, err := h.workspace(c).Members.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "Failed to load members")
		return
	}
	c.JSON(http.StatusOK, models.ListMembersResponse{Members: members, Count: len(members), Query: q})
}

func (h *ConsoleHandler) DeleteMember(c *gin.Context) {
	prompt, err := h.workspace(c).Members.RequestDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to request member deletion")
		return
	}
	c.JSON(http.StatusAccepted, promptmodels.PromptResponse{Prompt: prompt})
}
