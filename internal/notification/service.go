package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/config"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/pagination"
)

// Service stores and serves notifications. It is the single funnel
// every interaction notification goes through: the self-notification
// guard and reference checks live here, not at the call sites.
type Service struct {
	db      *gorm.DB
	logger  logger.Logger
	emitter *Emitter
	paging  config.PaginationConfig
}

func NewService(db *gorm.DB, logger logger.Logger, emitter *Emitter, paging config.PaginationConfig) *Service {
	return &Service{db: db, logger: logger, emitter: emitter, paging: paging}
}

// Notify stores a notification inside the caller's transaction and
// returns its id. Users never hear about their own actions: a
// notification whose sender is its recipient is silently dropped and
// uuid.Nil comes back. Kind and references are validated here so no
// call site can store a malformed row.
func (s *Service) Notify(ctx context.Context, tx *gorm.DB, kind string, senderID, recipientID uuid.UUID, videoID, commentID *uuid.UUID) (uuid.UUID, error) {
	switch kind {
	case TypeVideoLike:
		if videoID == nil {
			return uuid.Nil, apperr.BadRequest("video reference required")
		}
	case TypeVideoComment, TypeCommentLike, TypeCommentReply:
		if videoID == nil || commentID == nil {
			return uuid.Nil, apperr.BadRequest("video and comment references required")
		}
	default:
		return uuid.Nil, apperr.BadRequest("unknown notification type")
	}

	if senderID == recipientID {
		return uuid.Nil, nil
	}

	db := tx
	if db == nil {
		db = s.db.WithContext(ctx)
	}

	n := Notification{
		Type:        kind,
		SenderID:    senderID,
		RecipientID: recipientID,
		VideoID:     videoID,
		CommentID:   commentID,
	}
	if err := db.Create(&n).Error; err != nil {
		return uuid.Nil, err
	}
	return n.ID, nil
}

// Publish emits a stored notification to the recipient's live
// listeners. Call it only after the storing transaction committed.
func (s *Service) Publish(recipientID, notificationID uuid.UUID) {
	s.emitter.Publish(Event{NotificationID: notificationID, RecipientID: recipientID})
}

// Subscribe registers a live listener for the recipient's events.
func (s *Service) Subscribe(recipientID uuid.UUID) (<-chan Event, func()) {
	return s.emitter.Subscribe(recipientID)
}

// List pages the recipient's notifications newest-first, enriched with
// the sender and the referenced content.
func (s *Service) List(ctx context.Context, userID uuid.UUID, cursor *pagination.TimeCursor, limit int) (*Page, error) {
	limit = pagination.Clamp(limit, s.paging.DefaultLimit, s.paging.MaxLimit)

	q := s.db.WithContext(ctx).Model(&Notification{}).
		Preload("Sender").
		Preload("Video").
		Preload("Comment").
		Where("recipient_id = ?", userID)
	if cursor != nil {
		q = q.Where("updated_at < ? OR (updated_at = ? AND id < ?)", cursor.Key, cursor.Key, cursor.ID)
	}

	var notifications []Notification
	if err := q.Order("updated_at DESC, id DESC").Limit(limit + 1).Find(&notifications).Error; err != nil {
		return nil, apperr.Internal("failed to list notifications", err)
	}
	notifications, hasMore := pagination.Trim(notifications, limit)

	items := make([]Item, 0, len(notifications))
	for _, n := range notifications {
		item := Item{
			Notification: n,
			Sender: SenderSummary{
				ID:       n.Sender.ID,
				Name:     n.Sender.Name,
				ImageURL: n.Sender.ImageURL,
			},
		}
		if n.Video != nil {
			item.Video = &VideoRef{
				ID:           n.Video.ID,
				Title:        n.Video.Title,
				ThumbnailURL: n.Video.ThumbnailURL,
			}
		}
		if n.Comment != nil {
			item.Comment = &CommentRef{
				ID:      n.Comment.ID,
				Content: n.Comment.Content,
			}
		}
		items = append(items, item)
	}

	page := &Page{Items: items}
	if hasMore {
		last := notifications[len(notifications)-1]
		token, err := pagination.Encode(&pagination.TimeCursor{ID: last.ID, Key: last.UpdatedAt})
		if err != nil {
			return nil, apperr.Internal("failed to encode cursor", err)
		}
		page.NextCursor = token
	}
	return page, nil
}

// UnreadCount returns how many of the recipient's notifications are
// still unread.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Internal("failed to count unread notifications", err)
	}
	return count, nil
}

// MarkRead flags one of the recipient's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return apperr.Internal("failed to mark notification read", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead flags every unread notification of the recipient.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return apperr.Internal("failed to mark notifications read", err)
	}
	return nil
}

// Remove deletes one of the recipient's notifications.
func (s *Service) Remove(ctx context.Context, userID, notificationID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		Delete(&Notification{})
	if result.Error != nil {
		return apperr.Internal("failed to delete notification", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// Get loads one of the recipient's notifications by id.
func (s *Service) Get(ctx context.Context, userID, notificationID uuid.UUID) (*Notification, error) {
	var n Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("notification not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load notification", err)
	}
	return &n, nil
}
