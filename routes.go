package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/category"
	"github.com/vidorahq/vidora/backend/internal/comment"
	httpHandler "github.com/vidorahq/vidora/backend/internal/http"
	"github.com/vidorahq/vidora/backend/internal/notification"
	"github.com/vidorahq/vidora/backend/internal/playlist"
	"github.com/vidorahq/vidora/backend/internal/reaction"
	"github.com/vidorahq/vidora/backend/internal/search"
	"github.com/vidorahq/vidora/backend/internal/subscription"
	"github.com/vidorahq/vidora/backend/internal/user"
	"github.com/vidorahq/vidora/backend/internal/video"
)

// setupRoutes wires every handler onto the router. Listing endpoints
// are public with an optional identity; mutations require a user and
// run behind the per-user rate limit.
func (a *App) setupRoutes() {
	a.router.Use(httpHandler.RequestLoggerMiddleware(a.Logger))
	a.router.Use(httpHandler.RecoveryMiddleware(a.ResponseHandler, a.Logger))
	a.router.Use(httpHandler.CORSMiddleware())
	a.router.Use(httpHandler.IPRateLimitMiddleware(
		a.Config.Server.IPRateLimit.RequestsPerSecond,
		a.Config.Server.IPRateLimit.Burst,
	))

	videos := video.NewHandler(a.Videos, a.Logger, a.ResponseHandler)
	comments := comment.NewHandler(a.Comments, a.Logger, a.ResponseHandler)
	reactions := reaction.NewHandler(a.Reactions, a.Logger, a.ResponseHandler)
	categories := category.NewHandler(a.Categories, a.Logger, a.ResponseHandler)
	users := user.NewHandler(a.Users, a.Logger, a.ResponseHandler)
	subscriptions := subscription.NewHandler(a.Subscriptions, a.Logger, a.ResponseHandler)
	playlists := playlist.NewHandler(a.Playlists, a.Logger, a.ResponseHandler)
	notifications := notification.NewHandler(a.Notifications, a.Logger, a.ResponseHandler)
	searches := search.NewHandler(a.Search, a.Logger, a.ResponseHandler)

	api := a.router.Group("/api/v1")

	optional := api.Group("")
	optional.Use(auth.OptionalUser(a.Tokens, a.Auth))
	{
		optional.GET("/videos", videos.HandleGetMany)
		optional.GET("/videos/trending", videos.HandleGetTrending)
		optional.GET("/videos/:id", videos.HandleGetOne)
		optional.GET("/categories", categories.HandleList)
		optional.GET("/comments", comments.HandleList)
		optional.GET("/search", searches.HandleSearch)
		optional.GET("/users/:id", users.HandleGetOne)
	}

	protected := api.Group("")
	protected.Use(auth.RequireUser(a.Tokens, a.Auth, a.RateLimiter, a.ResponseHandler))
	{
		protected.GET("/users/me", users.HandleGetMe)
		protected.PATCH("/users/me", users.HandleUpdateMe)
		protected.POST("/users/me/banner", users.HandleUploadBanner)

		protected.POST("/videos", videos.HandleCreate)
		protected.PATCH("/videos/:id", videos.HandleUpdate)
		protected.DELETE("/videos/:id", videos.HandleRemove)
		protected.GET("/studio/videos", videos.HandleGetStudio)
		protected.GET("/feed/subscriptions", videos.HandleGetSubscribed)
		protected.POST("/videos/:id/revalidate", videos.HandleRevalidate)
		protected.POST("/videos/:id/thumbnail/restore", videos.HandleRestoreThumbnail)
		protected.POST("/videos/:id/generate/title", videos.HandleGenerateTitle)
		protected.POST("/videos/:id/generate/description", videos.HandleGenerateDescription)
		protected.POST("/videos/:id/generate/thumbnail", videos.HandleGenerateThumbnail)
		protected.POST("/videos/:id/views", videos.HandleCreateView)
		protected.POST("/videos/:id/reactions", reactions.HandleToggleVideo)

		protected.POST("/comments", comments.HandleCreate)
		protected.DELETE("/comments/:id", comments.HandleRemove)
		protected.POST("/comments/:id/reactions", reactions.HandleToggleComment)

		protected.POST("/users/:id/subscription", subscriptions.HandleSubscribe)
		protected.DELETE("/users/:id/subscription", subscriptions.HandleUnsubscribe)
		protected.GET("/subscriptions", subscriptions.HandleList)

		protected.POST("/playlists", playlists.HandleCreate)
		protected.GET("/playlists", playlists.HandleList)
		protected.GET("/playlists/history", playlists.HandleHistory)
		protected.GET("/playlists/liked", playlists.HandleLiked)
		protected.GET("/playlists/:id", playlists.HandleGetOne)
		protected.DELETE("/playlists/:id", playlists.HandleRemove)
		protected.GET("/playlists/:id/videos", playlists.HandleGetVideos)
		protected.POST("/playlists/:id/videos/:videoId", playlists.HandleAddVideo)
		protected.DELETE("/playlists/:id/videos/:videoId", playlists.HandleRemoveVideo)

		protected.GET("/notifications", notifications.HandleList)
		protected.GET("/notifications/unread-count", notifications.HandleUnreadCount)
		protected.GET("/notifications/stream", notifications.HandleStream)
		protected.POST("/notifications/read-all", notifications.HandleMarkAllRead)
		protected.POST("/notifications/:id/read", notifications.HandleMarkRead)
		protected.DELETE("/notifications/:id", notifications.HandleRemove)
	}

	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
