package reaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/comment"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/video"
)

// Notifier is the notification surface the toggle engine depends on.
// Notify stores the notification inside the caller's transaction and
// returns its id, or uuid.Nil when it was suppressed. Publish emits a
// stored notification to live listeners after commit.
type Notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, kind string, senderID, recipientID uuid.UUID, videoID, commentID *uuid.UUID) (uuid.UUID, error)
	Publish(recipientID, notificationID uuid.UUID)
}

const (
	kindVideoLike   = "video_like"
	kindCommentLike = "comment_like"
)

// Result reports the caller's reaction after a toggle. Reaction is nil
// when the toggle cleared it.
type Result struct {
	Reaction *Type `json:"reaction"`
}

// Service implements the shared like/dislike toggle for videos and
// comments. One call moves the caller's reaction through the cycle
// absent -> set -> flipped -> cleared.
type Service struct {
	db       *gorm.DB
	logger   logger.Logger
	notifier Notifier
}

func NewService(db *gorm.DB, logger logger.Logger, notifier Notifier) *Service {
	return &Service{db: db, logger: logger, notifier: notifier}
}

// ToggleVideo applies one toggle step to the caller's reaction on a
// video. Newly stored likes notify the video's owner; dislikes and
// cleared reactions stay silent.
func (s *Service) ToggleVideo(ctx context.Context, userID, videoID uuid.UUID, t Type) (*Result, error) {
	if !t.Valid() {
		return nil, apperr.BadRequest("invalid reaction type")
	}

	var target video.Video
	err := s.db.WithContext(ctx).Select("id, user_id").Where("id = ?", videoID).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load video", err)
	}

	var existing *Type
	var current VideoReaction
	err = s.db.WithContext(ctx).Where("user_id = ? AND video_id = ?", userID, videoID).Take(&current).Error
	switch {
	case err == nil:
		existing = &current.Type
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, apperr.Internal("failed to load reaction", err)
	}

	// Same type toggles the reaction off.
	if existing != nil && *existing == t {
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND video_id = ?", userID, videoID).
			Delete(&VideoReaction{}).Error; err != nil {
			return nil, apperr.Internal("failed to clear reaction", err)
		}
		return &Result{}, nil
	}

	var notificationID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reaction := VideoReaction{UserID: userID, VideoID: videoID, Type: t}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
		}).Create(&reaction).Error; err != nil {
			return err
		}
		if t == TypeLike {
			id, err := s.notifier.Notify(ctx, tx, kindVideoLike, userID, target.UserID, &videoID, nil)
			if err != nil {
				return err
			}
			notificationID = id
		}
		return nil
	})
	if err != nil {
		var derr *apperr.Error
		if errors.As(err, &derr) {
			return nil, err
		}
		return nil, apperr.Internal("failed to store reaction", err)
	}

	if notificationID != uuid.Nil {
		s.notifier.Publish(target.UserID, notificationID)
	}
	return &Result{Reaction: &t}, nil
}

// ToggleComment applies one toggle step to the caller's reaction on a
// comment. Newly stored likes notify the comment's author.
func (s *Service) ToggleComment(ctx context.Context, userID, commentID uuid.UUID, t Type) (*Result, error) {
	if !t.Valid() {
		return nil, apperr.BadRequest("invalid reaction type")
	}

	var target comment.Comment
	err := s.db.WithContext(ctx).Select("id, user_id, video_id").Where("id = ?", commentID).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("comment not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load comment", err)
	}

	var existing *Type
	var current CommentReaction
	err = s.db.WithContext(ctx).Where("user_id = ? AND comment_id = ?", userID, commentID).Take(&current).Error
	switch {
	case err == nil:
		existing = &current.Type
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, apperr.Internal("failed to load reaction", err)
	}

	if existing != nil && *existing == t {
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&CommentReaction{}).Error; err != nil {
			return nil, apperr.Internal("failed to clear reaction", err)
		}
		return &Result{}, nil
	}

	var notificationID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reaction := CommentReaction{UserID: userID, CommentID: commentID, Type: t}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "comment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
		}).Create(&reaction).Error; err != nil {
			return err
		}
		if t == TypeLike {
			id, err := s.notifier.Notify(ctx, tx, kindCommentLike, userID, target.UserID, &target.VideoID, &commentID)
			if err != nil {
				return err
			}
			notificationID = id
		}
		return nil
	})
	if err != nil {
		var derr *apperr.Error
		if errors.As(err, &derr) {
			return nil, err
		}
		return nil, apperr.Internal("failed to store reaction", err)
	}

	if notificationID != uuid.Nil {
		s.notifier.Publish(target.UserID, notificationID)
	}
	return &Result{Reaction: &t}, nil
}
