package video

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/category"
	"github.com/vidorahq/vidora/backend/internal/config"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/pagination"
	"github.com/vidorahq/vidora/backend/internal/storage"
	"github.com/vidorahq/vidora/backend/internal/transcode"
	"github.com/vidorahq/vidora/backend/internal/workflow"
)

const draftTitle = "Untitled"

// WorkflowTrigger is the surface the service needs to hand jobs off to
// the background workflow runner.
type WorkflowTrigger interface {
	TriggerRun(ctx context.Context, path string, input map[string]string) (*workflow.Trigger, error)
}

// Service implements video lifecycle and listing operations.
type Service struct {
	db        *gorm.DB
	logger    logger.Logger
	provider  transcode.Provider
	store     storage.ObjectStore
	workflows WorkflowTrigger
	paging    config.PaginationConfig
}

func NewService(db *gorm.DB, logger logger.Logger, provider transcode.Provider, store storage.ObjectStore, workflows WorkflowTrigger, paging config.PaginationConfig) *Service {
	return &Service{
		db:        db,
		logger:    logger,
		provider:  provider,
		store:     store,
		workflows: workflows,
		paging:    paging,
	}
}

// Create registers a direct upload with the transcode provider and
// stores a private draft row for it. The client uploads the file
// straight to the returned URL.
func (s *Service) Create(ctx context.Context, userID uuid.UUID) (*CreateResult, error) {
	upload, err := s.provider.CreateUpload(ctx, userID.String())
	if err != nil {
		s.logger.LogError(err, "Failed to register direct upload")
		return nil, apperr.Internal("failed to register upload", err)
	}

	video := Video{
		Title:      draftTitle,
		Status:     StatusWaiting,
		Visibility: VisibilityPrivate,
		UserID:     userID,
		UploadID:   &upload.ID,
	}
	if err := s.db.WithContext(ctx).Create(&video).Error; err != nil {
		return nil, apperr.Internal("failed to create video", err)
	}

	s.logger.LogInfo("Video draft created", map[string]interface{}{
		"videoId":  video.ID,
		"userId":   userID,
		"uploadId": upload.ID,
	})
	return &CreateResult{Video: video, UploadURL: upload.URL}, nil
}

// Update edits the mutable fields of a video the caller owns.
func (s *Service) Update(ctx context.Context, userID, videoID uuid.UUID, req UpdateRequest) (*Video, error) {
	video, err := s.owned(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperr.BadRequest("title cannot be empty")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Visibility != nil {
		if *req.Visibility != VisibilityPrivate && *req.Visibility != VisibilityPublic {
			return nil, apperr.BadRequest("invalid visibility")
		}
		updates["visibility"] = *req.Visibility
	}
	if req.CategoryID != nil {
		if *req.CategoryID == uuid.Nil {
			updates["category_id"] = nil
		} else {
			var count int64
			if err := s.db.WithContext(ctx).Model(&category.Category{}).Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
				return nil, apperr.Internal("failed to check category", err)
			}
			if count == 0 {
				return nil, apperr.BadRequest("unknown category")
			}
			updates["category_id"] = *req.CategoryID
		}
	}
	if len(updates) == 0 {
		return video, nil
	}

	if err := s.db.WithContext(ctx).Model(video).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("failed to update video", err)
	}
	return video, nil
}

// Remove deletes a video the caller owns along with any stored assets.
// Dependent rows (views, reactions, comments, notifications, playlist
// entries) go with it through foreign keys.
func (s *Service) Remove(ctx context.Context, userID, videoID uuid.UUID) error {
	video, err := s.owned(ctx, userID, videoID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(video).Error; err != nil {
		return apperr.Internal("failed to delete video", err)
	}

	for _, key := range []*string{video.ThumbnailKey, video.PreviewKey} {
		if key == nil {
			continue
		}
		if err := s.store.RemoveObject(ctx, *key); err != nil {
			s.logger.LogError(err, "Failed to remove stored video asset")
		}
	}

	s.logger.LogInfo("Video deleted", map[string]interface{}{
		"videoId": videoID,
		"userId":  userID,
	})
	return nil
}

// GetOne returns the watch-page projection of a video. Private videos
// resolve only for their owner; everyone else gets not-found.
func (s *Service) GetOne(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*Detail, error) {
	var video Video
	err := s.db.WithContext(ctx).Where("id = ?", videoID).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load video", err)
	}
	if video.Visibility == VisibilityPrivate && (viewerID == nil || *viewerID != video.UserID) {
		return nil, apperr.NotFound("video not found")
	}

	items, err := s.Enrich(ctx, []Video{video})
	if err != nil {
		return nil, err
	}
	item := items[0]

	detail := Detail{
		Video:        item.Video,
		ViewCount:    item.ViewCount,
		LikeCount:    item.LikeCount,
		DislikeCount: item.DislikeCount,
		User:         Owner{UserSummary: item.User},
	}

	if err := s.db.WithContext(ctx).Table("subscriptions").
		Where("creator_id = ?", video.UserID).
		Count(&detail.User.SubscriberCount).Error; err != nil {
		return nil, apperr.Internal("failed to count subscribers", err)
	}

	if viewerID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Table("subscriptions").
			Where("creator_id = ? AND viewer_id = ?", video.UserID, *viewerID).
			Count(&count).Error; err != nil {
			return nil, apperr.Internal("failed to check subscription", err)
		}
		detail.User.ViewerSubscribed = count > 0

		var reaction struct{ Type string }
		err := s.db.WithContext(ctx).Table("video_reactions").
			Select("type").
			Where("video_id = ? AND user_id = ?", videoID, *viewerID).
			Take(&reaction).Error
		switch {
		case err == nil:
			detail.ViewerReaction = &reaction.Type
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return nil, apperr.Internal("failed to load viewer reaction", err)
		}
	}

	return &detail, nil
}

// GetMany lists videos newest-first with keyset pagination. Without an
// owner filter only public videos are visible.
func (s *Service) GetMany(ctx context.Context, p ListParams) ([]ListItem, *pagination.TimeCursor, error) {
	limit := pagination.Clamp(p.Limit, s.paging.DefaultLimit, s.paging.MaxLimit)

	q := s.db.WithContext(ctx).Model(&Video{})
	if p.OwnerID != nil {
		q = q.Where("user_id = ?", *p.OwnerID)
		if !p.IncludePrivate {
			q = q.Where("visibility = ?", VisibilityPublic)
		}
	} else {
		q = q.Where("visibility = ?", VisibilityPublic)
	}
	if p.CategoryID != nil {
		q = q.Where("category_id = ?", *p.CategoryID)
	}
	if p.Query != "" {
		like := "%" + strings.ToLower(p.Query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", like, like)
	}
	if p.Cursor != nil {
		q = q.Where("updated_at < ? OR (updated_at = ? AND id < ?)", p.Cursor.Key, p.Cursor.Key, p.Cursor.ID)
	}

	var videos []Video
	if err := q.Order("updated_at DESC, id DESC").Limit(limit + 1).Find(&videos).Error; err != nil {
		return nil, nil, apperr.Internal("failed to list videos", err)
	}

	videos, hasMore := pagination.Trim(videos, limit)
	items, err := s.Enrich(ctx, videos)
	if err != nil {
		return nil, nil, err
	}

	var next *pagination.TimeCursor
	if hasMore {
		last := videos[len(videos)-1]
		next = &pagination.TimeCursor{ID: last.ID, Key: last.UpdatedAt}
	}
	return items, next, nil
}

// GetTrending lists public videos by view count, ties broken by id.
func (s *Service) GetTrending(ctx context.Context, cursor *pagination.CountCursor, limit int) ([]ListItem, *pagination.CountCursor, error) {
	limit = pagination.Clamp(limit, s.paging.DefaultLimit, s.paging.MaxLimit)

	viewCounts := s.db.Table("video_views").
		Select("video_id, COUNT(*) AS view_count").
		Group("video_id")

	q := s.db.WithContext(ctx).Table("videos").
		Select("videos.*, COALESCE(vc.view_count, 0) AS view_count").
		Joins("LEFT JOIN (?) vc ON vc.video_id = videos.id", viewCounts).
		Where("videos.visibility = ?", VisibilityPublic)
	if cursor != nil {
		q = q.Where("COALESCE(vc.view_count, 0) < ? OR (COALESCE(vc.view_count, 0) = ? AND videos.id < ?)",
			cursor.Key, cursor.Key, cursor.ID)
	}

	type trendingRow struct {
		Video     `gorm:"embedded"`
		ViewCount int64
	}
	var rows []trendingRow
	if err := q.Order("view_count DESC, videos.id DESC").Limit(limit + 1).Scan(&rows).Error; err != nil {
		return nil, nil, apperr.Internal("failed to list trending videos", err)
	}

	rows, hasMore := pagination.Trim(rows, limit)
	videos := make([]Video, 0, len(rows))
	for _, row := range rows {
		videos = append(videos, row.Video)
	}
	items, err := s.Enrich(ctx, videos)
	if err != nil {
		return nil, nil, err
	}

	var next *pagination.CountCursor
	if hasMore {
		last := rows[len(rows)-1]
		next = &pagination.CountCursor{ID: last.ID, Key: last.ViewCount}
	}
	return items, next, nil
}

// GetSubscribed lists public videos from creators the caller follows.
func (s *Service) GetSubscribed(ctx context.Context, userID uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]ListItem, *pagination.TimeCursor, error) {
	limit = pagination.Clamp(limit, s.paging.DefaultLimit, s.paging.MaxLimit)

	q := s.db.WithContext(ctx).Model(&Video{}).
		Joins("JOIN subscriptions ON subscriptions.creator_id = videos.user_id AND subscriptions.viewer_id = ?", userID).
		Where("videos.visibility = ?", VisibilityPublic)
	if cursor != nil {
		q = q.Where("videos.updated_at < ? OR (videos.updated_at = ? AND videos.id < ?)", cursor.Key, cursor.Key, cursor.ID)
	}

	var videos []Video
	if err := q.Order("videos.updated_at DESC, videos.id DESC").Limit(limit + 1).Find(&videos).Error; err != nil {
		return nil, nil, apperr.Internal("failed to list subscription feed", err)
	}

	videos, hasMore := pagination.Trim(videos, limit)
	items, err := s.Enrich(ctx, videos)
	if err != nil {
		return nil, nil, err
	}

	var next *pagination.TimeCursor
	if hasMore {
		last := videos[len(videos)-1]
		next = &pagination.TimeCursor{ID: last.ID, Key: last.UpdatedAt}
	}
	return items, next, nil
}

// Revalidate pulls the provider's current state for a pending upload
// and syncs it onto the row. Safe to call repeatedly; a still-waiting
// upload returns the row unchanged.
func (s *Service) Revalidate(ctx context.Context, userID, videoID uuid.UUID) (*Video, error) {
	video, err := s.owned(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	if video.UploadID == nil {
		return nil, apperr.BadRequest("video has no upload to revalidate")
	}

	upload, err := s.provider.GetUpload(ctx, *video.UploadID)
	if err != nil {
		s.logger.LogError(err, "Failed to fetch upload state")
		return nil, apperr.Internal("failed to fetch upload state", err)
	}
	if upload.AssetID == "" {
		return video, nil
	}

	asset, err := s.provider.GetAsset(ctx, upload.AssetID)
	if err != nil {
		s.logger.LogError(err, "Failed to fetch asset state")
		return nil, apperr.Internal("failed to fetch asset state", err)
	}

	updates := map[string]interface{}{
		"asset_id": asset.ID,
		"status":   asset.Status,
		"duration": asset.DurationMs,
	}
	if asset.PlaybackID != "" {
		updates["playback_id"] = asset.PlaybackID
		if asset.Status == StatusReady && video.ThumbnailKey == nil {
			updates["thumbnail_url"] = s.provider.ThumbnailURL(asset.PlaybackID)
			updates["preview_url"] = s.provider.PreviewURL(asset.PlaybackID)
		}
	}
	if err := s.db.WithContext(ctx).Model(video).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("failed to sync video state", err)
	}

	s.logger.LogInfo("Video state revalidated", map[string]interface{}{
		"videoId": videoID,
		"status":  asset.Status,
	})
	return video, nil
}

// RestoreThumbnail drops a custom uploaded thumbnail and falls back to
// the provider-generated frame.
func (s *Service) RestoreThumbnail(ctx context.Context, userID, videoID uuid.UUID) (*Video, error) {
	video, err := s.owned(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	if video.ThumbnailKey != nil {
		if err := s.store.RemoveObject(ctx, *video.ThumbnailKey); err != nil {
			s.logger.LogError(err, "Failed to remove custom thumbnail")
		}
	}

	updates := map[string]interface{}{
		"thumbnail_key": nil,
		"thumbnail_url": nil,
	}
	if video.PlaybackID != nil {
		updates["thumbnail_url"] = s.provider.ThumbnailURL(*video.PlaybackID)
	}
	if err := s.db.WithContext(ctx).Model(video).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("failed to restore thumbnail", err)
	}
	return video, nil
}

// GenerateTitle hands the video off to the title-generation workflow.
func (s *Service) GenerateTitle(ctx context.Context, userID, videoID uuid.UUID) (string, error) {
	return s.triggerWorkflow(ctx, userID, videoID, "/workflows/title", nil)
}

// GenerateDescription hands the video off to the description workflow.
func (s *Service) GenerateDescription(ctx context.Context, userID, videoID uuid.UUID) (string, error) {
	return s.triggerWorkflow(ctx, userID, videoID, "/workflows/description", nil)
}

// GenerateThumbnail hands the video off to the thumbnail workflow with
// the user's image prompt.
func (s *Service) GenerateThumbnail(ctx context.Context, userID, videoID uuid.UUID, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if len(prompt) < 10 {
		return "", apperr.BadRequest("prompt must be at least 10 characters")
	}
	return s.triggerWorkflow(ctx, userID, videoID, "/workflows/thumbnail", map[string]string{"prompt": prompt})
}

func (s *Service) triggerWorkflow(ctx context.Context, userID, videoID uuid.UUID, path string, extra map[string]string) (string, error) {
	if _, err := s.owned(ctx, userID, videoID); err != nil {
		return "", err
	}

	input := map[string]string{
		"userId":  userID.String(),
		"videoId": videoID.String(),
	}
	for k, v := range extra {
		input[k] = v
	}

	trigger, err := s.workflows.TriggerRun(ctx, path, input)
	if err != nil {
		s.logger.LogError(err, "Workflow trigger failed")
		return "", apperr.Internal("failed to start background job", err)
	}
	return trigger.RunID, nil
}

// CreateView records that the user watched the video. Watching the
// same video again is a no-op.
func (s *Service) CreateView(ctx context.Context, userID, videoID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Video{}).Where("id = ?", videoID).Count(&count).Error; err != nil {
		return apperr.Internal("failed to check video", err)
	}
	if count == 0 {
		return apperr.NotFound("video not found")
	}

	view := View{UserID: userID, VideoID: videoID}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&view).Error; err != nil {
		return apperr.Internal("failed to record view", err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, userID, videoID uuid.UUID) (*Video, error) {
	var video Video
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", videoID, userID).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load video", err)
	}
	return &video, nil
}

// Enrich attaches author summaries and aggregate counts to a page of
// videos using one grouped query per aggregate.
func (s *Service) Enrich(ctx context.Context, videos []Video) ([]ListItem, error) {
	items := make([]ListItem, 0, len(videos))
	if len(videos) == 0 {
		return items, nil
	}

	videoIDs := make([]uuid.UUID, 0, len(videos))
	userIDs := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID)
		userIDs = append(userIDs, v.UserID)
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
		return nil, apperr.Internal("failed to load video authors", err)
	}
	userByID := make(map[uuid.UUID]UserSummary, len(users))
	for _, u := range users {
		userByID[u.ID] = UserSummary{ID: u.ID, Name: u.Name, ImageURL: u.ImageURL}
	}

	var viewRows []struct {
		VideoID uuid.UUID
		Count   int64
	}
	if err := s.db.WithContext(ctx).Table("video_views").
		Select("video_id, COUNT(*) AS count").
		Where("video_id IN ?", videoIDs).
		Group("video_id").
		Scan(&viewRows).Error; err != nil {
		return nil, apperr.Internal("failed to count views", err)
	}
	viewsByID := make(map[uuid.UUID]int64, len(viewRows))
	for _, row := range viewRows {
		viewsByID[row.VideoID] = row.Count
	}

	var reactionRows []struct {
		VideoID uuid.UUID
		Type    string
		Count   int64
	}
	if err := s.db.WithContext(ctx).Table("video_reactions").
		Select("video_id, type, COUNT(*) AS count").
		Where("video_id IN ?", videoIDs).
		Group("video_id, type").
		Scan(&reactionRows).Error; err != nil {
		return nil, apperr.Internal("failed to count reactions", err)
	}
	likesByID := make(map[uuid.UUID]int64)
	dislikesByID := make(map[uuid.UUID]int64)
	for _, row := range reactionRows {
		if row.Type == "like" {
			likesByID[row.VideoID] = row.Count
		} else {
			dislikesByID[row.VideoID] = row.Count
		}
	}

	for _, v := range videos {
		items = append(items, ListItem{
			Video:        v,
			User:         userByID[v.UserID],
			ViewCount:    viewsByID[v.ID],
			LikeCount:    likesByID[v.ID],
			DislikeCount: dislikesByID[v.ID],
		})
	}
	return items, nil
}
