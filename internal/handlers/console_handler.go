package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.clubconsole/internal/confirm"
	"io.winapps.clubconsole/internal/console"
	"io.winapps.clubconsole/internal/content"
	"io.winapps.clubconsole/internal/editor"
	"io.winapps.clubconsole/internal/gallery"
	"io.winapps.clubconsole/internal/middleware"
	models "io.winapps.clubconsole/internal/models/console"
	"io.winapps.clubconsole/internal/notice"
	"io.winapps.clubconsole/internal/store"
)

// ConsoleHandler serves everything behind the console shell. Each request
// works on the caller's session workspace.
type ConsoleHandler struct {
	workspaces     *content.Workspaces
	maxUploadBytes int64
	logger         *zap.SugaredLogger
}

func NewConsoleHandler(workspaces *content.Workspaces, maxUploadBytes int64, logger *zap.SugaredLogger) *ConsoleHandler {
	return &ConsoleHandler{workspaces: workspaces, maxUploadBytes: maxUploadBytes, logger: logger}
}

func (h *ConsoleHandler) workspace(c *gin.Context) *content.Workspace {
	return h.workspaces.Open(c.GetString(middleware.ContextSessionID))
}

// fail maps a domain error to its HTTP status and JSON body.
func (h *ConsoleHandler) fail(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logError(c, err, msg)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, editor.ErrValidation),
		errors.Is(err, editor.ErrIndexOutOfRange),
		errors.Is(err, content.ErrNotEditable),
		errors.Is(err, console.ErrUnknownSection):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrDraftNotFound),
		errors.Is(err, editor.ErrPreviewNotFound),
		errors.Is(err, gallery.ErrRecordNotFound),
		errors.Is(err, confirm.ErrPromptNotFound),
		errors.Is(err, notice.ErrNoticeNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrSubmitInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetConsole returns the shell state.
func (h *ConsoleHandler) GetConsole(c *gin.Context) {
	w := h.workspace(c)
	c.JSON(http.StatusOK, models.ConsoleResponse{
		Section:  w.Shell.Section(),
		Sections: console.Sections(),
		Busy:     w.Busy.Busy(),
		Notices:  w.Notices.List(),
	})
}

func (h *ConsoleHandler) SelectSection(c *gin.Context) {
	var req models.SelectSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	w := h.workspace(c)
	if _, err := w.Shell.Select(req.Section); err != nil {
		h.fail(c, err, "Failed to select section")
		return
	}
	h.GetConsole(c)
}

// Overview prefetches the home dashboard panels in parallel.
func (h *ConsoleHandler) Overview(c *gin.Context) {
	panels := h.workspace(c).Overview(c.Request.Context())
	c.JSON(http.StatusOK, models.OverviewResponse{Panels: panels})
}

func (h *ConsoleHandler) Busy(c *gin.Context) {
	w := h.workspace(c)
	c.JSON(http.StatusOK, models.BusyResponse{Busy: w.Busy.Busy(), InFlight: w.Busy.InFlight()})
}

func (h *ConsoleHandler) ListNotices(c *gin.Context) {
	c.JSON(http.StatusOK, models.NoticesResponse{Notices: h.workspace(c).Notices.List()})
}

func (h *ConsoleHandler) DismissNotice(c *gin.Context) {
	if err := h.workspace(c).Notices.Dismiss(c.Param("id")); err != nil {
		h.fail(c, err, "Failed to dismiss notice")
		return
	}
	c.Status(http.StatusNoContent)
}
