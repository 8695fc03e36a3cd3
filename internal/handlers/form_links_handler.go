package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.clubconsole/internal/content"
	models "io.winapps.clubconsole/internal/models/form_link"
	listmodels "io.winapps.clubconsole/internal/models/list_content"
	promptmodels "io.winapps.clubconsole/internal/models/prompt"
)

func (h *ConsoleHandler) ListFormLinks(c *gin.Context) {
	q := c.Query("q")
	links, err := h.workspace(c).FormLinks.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "Failed to load form links")
		return
	}
	c.JSON(http.StatusOK, listmodels.ListFormLinksResponse{FormLinks: links, Count: len(links), Query: q})
}

func (h *ConsoleHandler) CreateFormLink(c *gin.Context) {
	var req models.FormLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event name and URL are required"})
		return
	}

	link, err := h.workspace(c).FormLinks.Create(c.Request.Context(), formLinkFromRequest(req))
	if err != nil {
		h.fail(c, err, "Failed to create form link")
		return
	}
	c.JSON(http.StatusCreated, models.FormLinkResponse{FormLink: link, Message: "Form link created"})
}

// UpdateFormLink saves an inline edit.
func (h *ConsoleHandler) UpdateFormLink(c *gin.Context) {
	var req models.FormLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event name and URL are required"})
		return
	}

	link, err := h.workspace(c).FormLinks.Update(c.Request.Context(), c.Param("id"), formLinkFromRequest(req))
	if err != nil {
		h.fail(c, err, "Failed to update form link")
		return
	}
	c.JSON(http.StatusOK, models.FormLinkResponse{FormLink: link, Message: "Form link updated"})
}

func (h *ConsoleHandler) DeleteFormLink(c *gin.Context) {
	prompt, err := h.workspace(c).FormLinks.RequestDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to request form link deletion")
		return
	}
	c.JSON(http.StatusAccepted, promptmodels.PromptResponse{Prompt: prompt})
}

func formLinkFromRequest(req models.FormLinkRequest) content.FormLink {
	return content.FormLink{
		EventName:         req.EventName,
		URL:               req.URL,
		EventDate:         req.EventDate,
		LastDayToRegister: req.LastDayToRegister,
	}
}
