package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/cache"
	"github.com/vidorahq/vidora/backend/internal/category"
	"github.com/vidorahq/vidora/backend/internal/comment"
	"github.com/vidorahq/vidora/backend/internal/config"
	"github.com/vidorahq/vidora/backend/internal/database"
	httpHandler "github.com/vidorahq/vidora/backend/internal/http"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/notification"
	"github.com/vidorahq/vidora/backend/internal/playlist"
	"github.com/vidorahq/vidora/backend/internal/reaction"
	"github.com/vidorahq/vidora/backend/internal/search"
	"github.com/vidorahq/vidora/backend/internal/storage/s3"
	"github.com/vidorahq/vidora/backend/internal/subscription"
	"github.com/vidorahq/vidora/backend/internal/transcode"
	"github.com/vidorahq/vidora/backend/internal/user"
	"github.com/vidorahq/vidora/backend/internal/video"
	"github.com/vidorahq/vidora/backend/internal/workflow"
)

// App holds all application dependencies
type App struct {
	ctx    context.Context
	Config *config.Config
	Logger logger.Logger

	db        *gorm.DB
	dbService *database.Service
	Cache     cache.Service
	router    *gin.Engine

	ResponseHandler httpHandler.ResponseHandler

	Auth          *auth.Service
	Tokens        *auth.JWTService
	RateLimiter   *auth.RateLimiter
	Users         *user.Service
	Categories    *category.Service
	Videos        *video.Service
	Comments      *comment.Service
	Reactions     *reaction.Service
	Subscriptions *subscription.Service
	Playlists     *playlist.Service
	Notifications *notification.Service
	Search        *search.Service
}

// NewApp creates a new application instance with all dependencies
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	dbService := database.NewService(&cfg.Database, log)
	db, err := dbService.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %v", err)
	}

	if err := dbService.Migrate(
		&auth.User{},
		&category.Category{},
		&video.Video{},
		&video.View{},
		&comment.Comment{},
		&reaction.VideoReaction{},
		&reaction.CommentReaction{},
		&subscription.Subscription{},
		&playlist.Playlist{},
		&playlist.PlaylistVideo{},
		&notification.Notification{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	cacheService, err := cache.NewRedisService(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	store, err := s3.NewService(&cfg.Storage.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %v", err)
	}

	responseHandler := httpHandler.NewResponseHandler(log)

	authConfig := auth.NewConfigFromAuthConfig(&cfg.Auth)
	authService := auth.NewService(db, log)
	tokens := auth.NewJWTService(authConfig)
	rateLimiter := auth.NewRateLimiter(cacheService, log, authConfig)

	provider := transcode.NewClient(&cfg.Transcode, log)
	workflows := workflow.NewClient(&cfg.Workflow)
	emitter := notification.NewEmitter()

	notificationService := notification.NewService(db, log, emitter, cfg.Pagination)
	categoryService := category.NewService(db, log)
	videoService := video.NewService(db, log, provider, store, workflows, cfg.Pagination)
	commentService := comment.NewService(db, log, notificationService, cfg.Pagination)
	reactionService := reaction.NewService(db, log, notificationService)
	subscriptionService := subscription.NewService(db, log, cfg.Pagination)
	playlistService := playlist.NewService(db, log, videoService, cfg.Pagination)
	userService := user.NewService(db, log, store)
	searchService := search.NewService(videoService, log)

	if err := categoryService.Seed(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	app := &App{
		ctx:             ctx,
		Config:          cfg,
		Logger:          log,
		db:              db,
		dbService:       dbService,
		Cache:           cacheService,
		router:          router,
		ResponseHandler: responseHandler,
		Auth:            authService,
		Tokens:          tokens,
		RateLimiter:     rateLimiter,
		Users:           userService,
		Categories:      categoryService,
		Videos:          videoService,
		Comments:        commentService,
		Reactions:       reactionService,
		Subscriptions:   subscriptionService,
		Playlists:       playlistService,
		Notifications:   notificationService,
		Search:          searchService,
	}

	app.setupRoutes()
	return app, nil
}

// Run starts the HTTP server
func (a *App) Run() error {
	addr := fmt.Sprintf(":%d", a.Config.Server.Port)
	a.Logger.LogInfo("Starting server", map[string]interface{}{
		"addr":        addr,
		"environment": a.Config.Environment,
	})
	return a.router.Run(addr)
}

// Shutdown releases the app's external connections
func (a *App) Shutdown() {
	if err := a.dbService.Close(); err != nil {
		a.Logger.LogError(err, "Failed to close database connection")
	}
	if err := a.Cache.Close(); err != nil {
		a.Logger.LogError(err, "Failed to close redis connection")
	}
}
