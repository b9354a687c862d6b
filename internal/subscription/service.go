package subscription

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/config"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/pagination"
)

// CreatorSummary is a followed channel as the subscriptions page shows
// it.
type CreatorSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	ImageURL        string    `json:"imageUrl"`
	SubscriberCount int64     `json:"subscriberCount"`
}

// Item pairs a subscription with its creator projection.
type Item struct {
	Subscription
	Creator CreatorSummary `json:"creator"`
}

// Page is the wire shape of the subscriptions listing.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"nextCursor"`
}

// Service manages viewer-to-creator subscriptions.
type Service struct {
	db     *gorm.DB
	logger logger.Logger
	paging config.PaginationConfig
}

func NewService(db *gorm.DB, logger logger.Logger, paging config.PaginationConfig) *Service {
	return &Service{db: db, logger: logger, paging: paging}
}

// Subscribe follows a creator. Following yourself is rejected;
// following someone twice is a no-op.
func (s *Service) Subscribe(ctx context.Context, viewerID, creatorID uuid.UUID) error {
	if viewerID == creatorID {
		return apperr.BadRequest("cannot subscribe to yourself")
	}

	var creator auth.User
	err := s.db.WithContext(ctx).Select("id").Where("id = ?", creatorID).First(&creator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return apperr.Internal("failed to load user", err)
	}

	sub := Subscription{ViewerID: viewerID, CreatorID: creatorID}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sub).Error; err != nil {
		return apperr.Internal("failed to subscribe", err)
	}

	s.logger.LogDebug("Subscription created", map[string]interface{}{
		"viewerId":  viewerID,
		"creatorId": creatorID,
	})
	return nil
}

// Unsubscribe stops following a creator. Unfollowing someone you never
// followed is a no-op.
func (s *Service) Unsubscribe(ctx context.Context, viewerID, creatorID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Where("viewer_id = ? AND creator_id = ?", viewerID, creatorID).
		Delete(&Subscription{}).Error
	if err != nil {
		return apperr.Internal("failed to unsubscribe", err)
	}
	return nil
}

// List pages the creators the viewer follows, most recently followed
// first, each with their current subscriber count.
func (s *Service) List(ctx context.Context, viewerID uuid.UUID, cursor *pagination.TimeCursor, limit int) (*Page, error) {
	limit = pagination.Clamp(limit, s.paging.DefaultLimit, s.paging.MaxLimit)

	q := s.db.WithContext(ctx).Model(&Subscription{}).Where("viewer_id = ?", viewerID)
	if cursor != nil {
		q = q.Where("updated_at < ? OR (updated_at = ? AND creator_id < ?)", cursor.Key, cursor.Key, cursor.ID)
	}

	var subs []Subscription
	if err := q.Order("updated_at DESC, creator_id DESC").Limit(limit + 1).Find(&subs).Error; err != nil {
		return nil, apperr.Internal("failed to list subscriptions", err)
	}
	subs, hasMore := pagination.Trim(subs, limit)

	items := make([]Item, 0, len(subs))
	if len(subs) > 0 {
		creatorIDs := make([]uuid.UUID, 0, len(subs))
		for _, sub := range subs {
			creatorIDs = append(creatorIDs, sub.CreatorID)
		}

		var creators []struct {
			ID       uuid.UUID
			Name     string
			ImageURL string
		}
		if err := s.db.WithContext(ctx).Table("users").
			Select("id, name, image_url").
			Where("id IN ?", creatorIDs).
			Scan(&creators).Error; err != nil {
			return nil, apperr.Internal("failed to load creators", err)
		}
		creatorByID := make(map[uuid.UUID]CreatorSummary, len(creators))
		for _, c := range creators {
			creatorByID[c.ID] = CreatorSummary{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL}
		}

		var countRows []struct {
			CreatorID uuid.UUID
			Count     int64
		}
		if err := s.db.WithContext(ctx).Model(&Subscription{}).
			Select("creator_id, COUNT(*) AS count").
			Where("creator_id IN ?", creatorIDs).
			Group("creator_id").
			Scan(&countRows).Error; err != nil {
			return nil, apperr.Internal("failed to count subscribers", err)
		}
		countByID := make(map[uuid.UUID]int64, len(countRows))
		for _, row := range countRows {
			countByID[row.CreatorID] = row.Count
		}

		for _, sub := range subs {
			creator := creatorByID[sub.CreatorID]
			creator.SubscriberCount = countByID[sub.CreatorID]
			items = append(items, Item{Subscription: sub, Creator: creator})
		}
	}

	page := &Page{Items: items}
	if hasMore {
		last := subs[len(subs)-1]
		token, err := pagination.Encode(&pagination.TimeCursor{ID: last.CreatorID, Key: last.UpdatedAt})
		if err != nil {
			return nil, apperr.Internal("failed to encode cursor", err)
		}
		page.NextCursor = token
	}
	return page, nil
}
