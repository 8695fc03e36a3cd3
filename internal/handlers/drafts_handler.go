package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"io.winapps.clubconsole/internal/editor"
	models "io.winapps.clubconsole/internal/models/draft"
)

func (h *ConsoleHandler) OpenDraft(c *gin.Context) {
	var req models.OpenDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	draft, err := h.workspace(c).OpenDraft(c.Request.Context(), req.Collection, req.RecordID)
	if err != nil {
		h.fail(c, err, "Failed to open draft")
		return
	}
	c.JSON(http.StatusCreated, models.DraftResponse{Draft: draft})
}

func (h *ConsoleHandler) GetDraft(c *gin.Context) {
	draft, err := h.workspace(c).Editor.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to load draft")
		return
	}
	c.JSON(http.StatusOK, models.DraftResponse{Draft: draft})
}

func (h *ConsoleHandler) DiscardDraft(c *gin.Context) {
	if err := h.workspace(c).Editor.Discard(c.Param("id")); err != nil {
		h.fail(c, err, "Failed to discard draft")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConsoleHandler) UpdateDraftFields(c *gin.Context) {
	var req models.UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	draft, err := h.workspace(c).Editor.SetFields(c.Param("id"), req.Fields)
	if err != nil {
		h.fail(c, err, "Failed to update draft")
		return
	}
	c.JSON(http.StatusOK, models.DraftResponse{Draft: draft})
}

// SelectImages reads the multipart "images" files into the draft's pending
// list. Each file gets a preview served by DraftPreview.
func (h *ConsoleHandler) SelectImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected multipart form data"})
		return
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images provided"})
		return
	}

	files := make([]editor.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > h.maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("%s exceeds the %d byte upload limit", fh.Filename, h.maxUploadBytes)})
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.logError(c, err, "failed to open uploaded file", "filename", fh.Filename)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.logError(c, err, "failed to read uploaded file", "filename", fh.Filename)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		files = append(files, editor.File{Name: fh.Filename, ContentType: contentType, Data: data})
	}

	draft, err := h.workspace(c).Editor.SelectImages(c.Param("id"), files)
	if err != nil {
		h.fail(c, err, "Failed to add images")
		return
	}
	c.JSON(http.StatusOK, models.DraftResponse{Draft: draft})
}

func (h *ConsoleHandler) RemovePendingImage(c *gin.Context) {
	h.removeImage(c, h.workspace(c).Editor.RemovePending)
}

func (h *ConsoleHandler) RemovePersistedImage(c *gin.Context) {
	h.removeImage(c, h.workspace(c).Editor.RemovePersisted)
}

func (h *ConsoleHandler) removeImage(c *gin.Context, remove func(id string, index int) (editor.Snapshot, error)) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image index must be a number"})
		return
	}
	draft, err := remove(c.Param("id"), index)
	if err != nil {
		h.fail(c, err, "Failed to remove image")
		return
	}
	c.JSON(http.StatusOK, models.DraftResponse{Draft: draft})
}

// DraftPreview serves a pending file's bytes for local preview.
func (h *ConsoleHandler) DraftPreview(c *gin.Context) {
	file, err := h.workspace(c).Editor.Preview(c.Param("id"), c.Param("previewId"))
	if err != nil {
		h.fail(c, err, "Failed to load preview")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// SubmitDraft uploads the draft's images and persists the record.
func (h *ConsoleHandler) SubmitDraft(c *gin.Context) {
	values, err := h.workspace(c).Editor.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to save record")
		return
	}

	logWithContext(h.logger, c, "info", "draft submitted", "record_id", values.RecordID, "images", len(values.Images))
	c.JSON(http.StatusOK, models.SubmitDraftResponse{
		Message:  "Saved",
		RecordID: values.RecordID,
		Images:   values.Images,
	})
}
