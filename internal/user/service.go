package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/storage"
)

// Profile is the channel-page projection of a user.
type Profile struct {
	auth.User
	VideoCount       int64 `json:"videoCount"`
	SubscriberCount  int64 `json:"subscriberCount"`
	ViewerSubscribed bool  `json:"viewerSubscribed"`
}

// Service serves channel profiles and profile edits.
type Service struct {
	db     *gorm.DB
	logger logger.Logger
	store  storage.ObjectStore
}

func NewService(db *gorm.DB, logger logger.Logger, store storage.ObjectStore) *Service {
	return &Service{db: db, logger: logger, store: store}
}

// GetOne loads a user's channel profile with the aggregates the page
// shows, plus whether the viewer already follows them.
func (s *Service) GetOne(ctx context.Context, userID uuid.UUID, viewerID *uuid.UUID) (*Profile, error) {
	var u auth.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}

	profile := Profile{User: u}

	if err := s.db.WithContext(ctx).Table("videos").
		Where("user_id = ? AND visibility = ?", userID, "public").
		Count(&profile.VideoCount).Error; err != nil {
		return nil, apperr.Internal("failed to count videos", err)
	}

	if err := s.db.WithContext(ctx).Table("subscriptions").
		Where("creator_id = ?", userID).
		Count(&profile.SubscriberCount).Error; err != nil {
		return nil, apperr.Internal("failed to count subscribers", err)
	}

	if viewerID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Table("subscriptions").
			Where("creator_id = ? AND viewer_id = ?", userID, *viewerID).
			Count(&count).Error; err != nil {
			return nil, apperr.Internal("failed to check subscription", err)
		}
		profile.ViewerSubscribed = count > 0
	}

	return &profile, nil
}

// UpdateName renames the caller's channel.
func (s *Service) UpdateName(ctx context.Context, userID uuid.UUID, name string) (*auth.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.BadRequest("name cannot be empty")
	}

	var u auth.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}

	if err := s.db.WithContext(ctx).Model(&u).Update("name", name).Error; err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}
	return &u, nil
}

// UploadBanner stores a new channel banner and drops the previous one.
func (s *Service) UploadBanner(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (*auth.User, error) {
	var u auth.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}

	key := fmt.Sprintf("banners/%s/%s", userID, uuid.New())
	url, err := s.store.PutObject(ctx, key, reader, size, contentType)
	if err != nil {
		s.logger.LogError(err, "Failed to store banner")
		return nil, apperr.Internal("failed to store banner", err)
	}

	oldKey := u.BannerKey
	updates := map[string]interface{}{
		"banner_url": url,
		"banner_key": key,
	}
	if err := s.db.WithContext(ctx).Model(&u).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}

	if oldKey != nil {
		if err := s.store.RemoveObject(ctx, *oldKey); err != nil {
			s.logger.LogError(err, "Failed to remove previous banner")
		}
	}

	s.logger.LogInfo("Banner updated", map[string]interface{}{
		"userId": userID,
		"key":    key,
	})
	return &u, nil
}
