// Package testhelper provides the shared fixtures service tests build
// on: an isolated in-memory database with the full schema, a quiet
// logger and the default paging bounds.
package testhelper

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/category"
	"github.com/vidorahq/vidora/backend/internal/comment"
	"github.com/vidorahq/vidora/backend/internal/config"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/notification"
	"github.com/vidorahq/vidora/backend/internal/playlist"
	"github.com/vidorahq/vidora/backend/internal/reaction"
	"github.com/vidorahq/vidora/backend/internal/subscription"
	"github.com/vidorahq/vidora/backend/internal/video"
)

// SetupTestDB opens a fresh in-memory database with the full schema
// migrated. Each call gets its own database, so tests stay isolated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
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
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewTestLogger returns a logger that only surfaces errors.
func NewTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	log, err := logger.NewService(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return log
}

// Paging returns the paging bounds tests run with.
func Paging() config.PaginationConfig {
	return config.PaginationConfig{DefaultLimit: 20, MaxLimit: 100}
}

// CreateUser inserts a user for tests to act as.
func CreateUser(t *testing.T, db *gorm.DB, name string) *auth.User {
	t.Helper()

	u := auth.User{
		ExternalID: "ext_" + uuid.New().String(),
		Name:       name,
		ImageURL:   "https://img.example.com/" + name,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to create user %q: %v", name, err)
	}
	return &u
}

// CreateVideo inserts a public, ready video owned by the given user.
func CreateVideo(t *testing.T, db *gorm.DB, owner *auth.User, title string) *video.Video {
	t.Helper()

	v := video.Video{
		Title:      title,
		Status:     video.StatusReady,
		Visibility: video.VisibilityPublic,
		UserID:     owner.ID,
	}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("failed to create video %q: %v", title, err)
	}
	return &v
}
