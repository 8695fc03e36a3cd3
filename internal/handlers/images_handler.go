package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.clubconsole/internal/content"
	models "io.winapps.clubconsole/internal/models/list_content"
	promptmodels "io.winapps.clubconsole/internal/models/prompt"
)

func (h *ConsoleHandler) ListGallery(c *gin.Context) {
	h.listImages(c, h.workspace(c).Gallery)
}

func (h *ConsoleHandler) DeleteGalleryImage(c *gin.Context) {
	h.deleteImage(c, h.workspace(c).Gallery)
}

func (h *ConsoleHandler) ListBanners(c *gin.Context) {
	h.listImages(c, h.workspace(c).Banners)
}

func (h *ConsoleHandler) DeleteBanner(c *gin.Context) {
	h.deleteImage(c, h.workspace(c).Banners)
}

func (h *ConsoleHandler) listImages(c *gin.Context, m *content.Images) {
	images, err := m.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load "+m.Collection())
		return
	}
	c.JSON(http.StatusOK, models.ListImagesResponse{Images: images, Count: len(images)})
}

func (h *ConsoleHandler) deleteImage(c *gin.Context, m *content.Images) {
	prompt, err := m.RequestDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to request image deletion")
		return
	}
	c.JSON(http.StatusAccepted, promptmodels.PromptResponse{Prompt: prompt})
}
