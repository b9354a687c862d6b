package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/config"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/pagination"
	"github.com/vidorahq/vidora/backend/internal/video"
)

// Service implements the threaded comment store.
type Service struct {
	db       *gorm.DB
	logger   logger.Logger
	notifier Notifier
	paging   config.PaginationConfig
}

func NewService(db *gorm.DB, logger logger.Logger, notifier Notifier, paging config.PaginationConfig) *Service {
	return &Service{db: db, logger: logger, notifier: notifier, paging: paging}
}

// Create stores a comment or reply and raises the matching
// notification in the same transaction. A reply's root is resolved
// from its parent: the parent's own root when the parent is a reply,
// otherwise the parent itself.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.BadRequest("comment cannot be empty")
	}

	var target video.Video
	err := s.db.WithContext(ctx).Where("id = ?", req.VideoID).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load video", err)
	}

	comment := Comment{
		Content: content,
		UserID:  userID,
		VideoID: req.VideoID,
	}

	recipientID := target.UserID
	kind := kindVideoComment

	if req.ParentID != nil {
		var parent Comment
		err := s.db.WithContext(ctx).Where("id = ?", *req.ParentID).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("parent comment not found")
		}
		if err != nil {
			return nil, apperr.Internal("failed to load parent comment", err)
		}
		if parent.VideoID != req.VideoID {
			return nil, apperr.BadRequest("parent comment belongs to a different video")
		}

		rootID := parent.ID
		if parent.RootID != nil {
			rootID = *parent.RootID
		}
		comment.ParentID = &parent.ID
		comment.RootID = &rootID

		recipientID = parent.UserID
		kind = kindCommentReply
	}

	var notificationID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		id, err := s.notifier.Notify(ctx, tx, kind, userID, recipientID, &req.VideoID, &comment.ID)
		if err != nil {
			return err
		}
		notificationID = id
		return nil
	})
	if err != nil {
		var derr *apperr.Error
		if errors.As(err, &derr) {
			return nil, err
		}
		return nil, apperr.Internal("failed to create comment", err)
	}

	if notificationID != uuid.Nil {
		s.notifier.Publish(recipientID, notificationID)
	}

	s.logger.LogDebug("Comment created", map[string]interface{}{
		"commentId": comment.ID,
		"videoId":   req.VideoID,
		"reply":     comment.ParentID != nil,
	})
	return &comment, nil
}

// List pages one thread level of a video's comments, newest first.
// A nil rootID selects the top level; a root id selects that comment's
// replies.
func (s *Service) List(ctx context.Context, videoID uuid.UUID, rootID, viewerID *uuid.UUID, cursor *pagination.TimeCursor, limit int) (*Page, error) {
	limit = pagination.Clamp(limit, s.paging.DefaultLimit, s.paging.MaxLimit)

	q := s.db.WithContext(ctx).Model(&Comment{}).Where("video_id = ?", videoID)
	if rootID != nil {
		q = q.Where("root_id = ?", *rootID)
	} else {
		q = q.Where("root_id IS NULL")
	}
	if cursor != nil {
		q = q.Where("updated_at < ? OR (updated_at = ? AND id < ?)", cursor.Key, cursor.Key, cursor.ID)
	}

	var comments []Comment
	if err := q.Order("updated_at DESC, id DESC").Limit(limit + 1).Find(&comments).Error; err != nil {
		return nil, apperr.Internal("failed to list comments", err)
	}
	comments, hasMore := pagination.Trim(comments, limit)

	items, err := s.enrich(ctx, comments, viewerID)
	if err != nil {
		return nil, err
	}

	page := &Page{Items: items}
	if err := s.db.WithContext(ctx).Model(&Comment{}).Where("video_id = ?", videoID).Count(&page.TotalCount).Error; err != nil {
		return nil, apperr.Internal("failed to count comments", err)
	}

	if hasMore {
		last := comments[len(comments)-1]
		token, err := pagination.Encode(&pagination.TimeCursor{ID: last.ID, Key: last.UpdatedAt})
		if err != nil {
			return nil, apperr.Internal("failed to encode cursor", err)
		}
		page.NextCursor = token
	}
	return page, nil
}

// Remove deletes a comment the caller wrote. Replies under it go with
// it through foreign keys. A comment that does not exist and a comment
// owned by someone else are indistinguishable to the caller.
func (s *Service) Remove(ctx context.Context, userID, commentID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", commentID, userID).Delete(&Comment{})
	if result.Error != nil {
		return apperr.Internal("failed to delete comment", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}

// enrich attaches author summaries, parent authors, reply counts,
// reaction counts and the viewer's own reaction to a page of comments.
func (s *Service) enrich(ctx context.Context, comments []Comment, viewerID *uuid.UUID) ([]Item, error) {
	items := make([]Item, 0, len(comments))
	if len(comments) == 0 {
		return items, nil
	}

	commentIDs := make([]uuid.UUID, 0, len(comments))
	userIDs := make([]uuid.UUID, 0, len(comments))
	parentIDs := make([]uuid.UUID, 0)
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		userIDs = append(userIDs, c.UserID)
		if c.ParentID != nil {
			parentIDs = append(parentIDs, *c.ParentID)
		}
	}

	parentAuthor := make(map[uuid.UUID]uuid.UUID, len(parentIDs))
	if len(parentIDs) > 0 {
		var parents []Comment
		if err := s.db.WithContext(ctx).Select("id, user_id").Where("id IN ?", parentIDs).Find(&parents).Error; err != nil {
			return nil, apperr.Internal("failed to load parent comments", err)
		}
		for _, p := range parents {
			parentAuthor[p.ID] = p.UserID
			userIDs = append(userIDs, p.UserID)
		}
	}

	var users []struct {
		ID       uuid.UUID
		Name     string
		ImageURL string
	}
	if err := s.db.WithContext(ctx).Table("users").
		Select("id, name, image_url").
		Where("id IN ?", userIDs).
		Scan(&users).Error; err != nil {
		return nil, apperr.Internal("failed to load comment authors", err)
	}
	userByID := make(map[uuid.UUID]UserSummary, len(users))
	for _, u := range users {
		userByID[u.ID] = UserSummary{ID: u.ID, Name: u.Name, ImageURL: u.ImageURL}
	}

	var replyRows []struct {
		RootID uuid.UUID
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&Comment{}).
		Select("root_id, COUNT(*) AS count").
		Where("root_id IN ?", commentIDs).
		Group("root_id").
		Scan(&replyRows).Error; err != nil {
		return nil, apperr.Internal("failed to count replies", err)
	}
	repliesByID := make(map[uuid.UUID]int64, len(replyRows))
	for _, row := range replyRows {
		repliesByID[row.RootID] = row.Count
	}

	var reactionRows []struct {
		CommentID uuid.UUID
		Type      string
		Count     int64
	}
	if err := s.db.WithContext(ctx).Table("comment_reactions").
		Select("comment_id, type, COUNT(*) AS count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id, type").
		Scan(&reactionRows).Error; err != nil {
		return nil, apperr.Internal("failed to count comment reactions", err)
	}
	likesByID := make(map[uuid.UUID]int64)
	dislikesByID := make(map[uuid.UUID]int64)
	for _, row := range reactionRows {
		if row.Type == "like" {
			likesByID[row.CommentID] = row.Count
		} else {
			dislikesByID[row.CommentID] = row.Count
		}
	}

	viewerReaction := make(map[uuid.UUID]string)
	if viewerID != nil {
		var rows []struct {
			CommentID uuid.UUID
			Type      string
		}
		if err := s.db.WithContext(ctx).Table("comment_reactions").
			Select("comment_id, type").
			Where("comment_id IN ? AND user_id = ?", commentIDs, *viewerID).
			Scan(&rows).Error; err != nil {
			return nil, apperr.Internal("failed to load viewer reactions", err)
		}
		for _, row := range rows {
			viewerReaction[row.CommentID] = row.Type
		}
	}

	for _, c := range comments {
		item := Item{
			Comment:      c,
			User:         userByID[c.UserID],
			ReplyCount:   repliesByID[c.ID],
			LikeCount:    likesByID[c.ID],
			DislikeCount: dislikesByID[c.ID],
		}
		if c.ParentID != nil {
			if authorID, ok := parentAuthor[*c.ParentID]; ok {
				if summary, ok := userByID[authorID]; ok {
					item.ParentUser = &summary
				}
			}
		}
		if t, ok := viewerReaction[c.ID]; ok {
			reaction := t
			item.ViewerReaction = &reaction
		}
		items = append(items, item)
	}
	return items, nil
}
