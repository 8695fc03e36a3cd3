package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.clubconsole/internal/middleware"
	"io.winapps.clubconsole/internal/session"
)

// RegisterRoutes mounts the public and protected console API on router.
func RegisterRoutes(router *gin.Engine, authHandler *AuthHandler, consoleHandler *ConsoleHandler, sessions session.Registry, gate *session.Gate, logger *zap.SugaredLogger) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/session", authHandler.Session)

	requireAuth := middleware.AuthMiddleware(sessions, gate, logger)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", requireAuth, authHandler.Logout)
		auth.POST("/change-password", requireAuth, authHandler.ChangePassword)
	}

	protected := v1.Group("")
	protected.Use(requireAuth)
	{
		protected.GET("/console", consoleHandler.GetConsole)
		protected.PUT("/console/section", consoleHandler.SelectSection)
		protected.GET("/console/overview", consoleHandler.Overview)
		protected.GET("/busy", consoleHandler.Busy)

		protected.GET("/notices", consoleHandler.ListNotices)
		protected.DELETE("/notices/:id", consoleHandler.DismissNotice)

		protected.GET("/prompts/:id", consoleHandler.GetPrompt)
		protected.POST("/prompts/:id/confirm", consoleHandler.ConfirmPrompt)
		protected.POST("/prompts/:id/cancel", consoleHandler.CancelPrompt)

		drafts := protected.Group("/drafts")
		{
			drafts.POST("", consoleHandler.OpenDraft)
			drafts.GET("/:id", consoleHandler.GetDraft)
			drafts.DELETE("/:id", consoleHandler.DiscardDraft)
			drafts.PATCH("/:id/fields", consoleHandler.UpdateDraftFields)
			drafts.POST("/:id/images", consoleHandler.SelectImages)
			drafts.DELETE("/:id/images/:index", consoleHandler.RemovePendingImage)
			drafts.DELETE("/:id/persisted/:index", consoleHandler.RemovePersistedImage)
			drafts.GET("/:id/previews/:previewId", consoleHandler.DraftPreview)
			drafts.POST("/:id/submit", consoleHandler.SubmitDraft)
		}

		protected.GET("/events", consoleHandler.ListEvents)
		protected.GET("/events/:id", consoleHandler.GetEvent)
		protected.DELETE("/events/:id", consoleHandler.DeleteEvent)

		protected.GET("/gallery", consoleHandler.ListGallery)
		protected.DELETE("/gallery/:id", consoleHandler.DeleteGalleryImage)

		protected.GET("/banners", consoleHandler.ListBanners)
		protected.DELETE("/banners/:id", consoleHandler.DeleteBanner)

		protected.GET("/members", consoleHandler.ListMembers)
		protected.DELETE("/members/:id", consoleHandler.DeleteMember)

		protected.GET("/form-links", consoleHandler.ListFormLinks)
		protected.POST("/form-links", consoleHandler.CreateFormLink)
		protected.PUT("/form-links/:id", consoleHandler.UpdateFormLink)
		protected.DELETE("/form-links/:id", consoleHandler.DeleteFormLink)
	}
}
