package playlist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/config"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/pagination"
	"github.com/vidorahq/vidora/backend/internal/video"
)

// Item is a playlist enriched with its size and cover. ContainsVideo
// is only meaningful in listings scoped to a video.
type Item struct {
	Playlist
	VideoCount    int64   `json:"videoCount"`
	ThumbnailURL  *string `json:"thumbnailUrl"`
	ContainsVideo bool    `json:"containsVideo"`
}

// Page is the wire shape of a playlist listing.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"nextCursor"`
}

// VideoPage is the wire shape of the video listings this package
// serves (playlist contents, watch history, liked videos).
type VideoPage struct {
	Items      []video.ListItem `json:"items"`
	NextCursor string           `json:"nextCursor"`
}

// Service manages playlists and the two synthetic collections every
// user has: watch history and liked videos.
type Service struct {
	db     *gorm.DB
	logger logger.Logger
	videos *video.Service
	paging config.PaginationConfig
}

func NewService(db *gorm.DB, logger logger.Logger, videos *video.Service, paging config.PaginationConfig) *Service {
	return &Service{db: db, logger: logger, videos: videos, paging: paging}
}

// Create stores a new empty playlist.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.BadRequest("playlist name cannot be empty")
	}

	playlist := Playlist{Name: name, UserID: userID}
	if err := s.db.WithContext(ctx).Create(&playlist).Error; err != nil {
		return nil, apperr.Internal("failed to create playlist", err)
	}
	return &playlist, nil
}

// Remove deletes a playlist the caller owns; memberships cascade.
func (s *Service) Remove(ctx context.Context, userID, playlistID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", playlistID, userID).Delete(&Playlist{})
	if result.Error != nil {
		return apperr.Internal("failed to delete playlist", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("playlist not found")
	}
	return nil
}

// GetOne loads a playlist the caller owns.
func (s *Service) GetOne(ctx context.Context, userID, playlistID uuid.UUID) (*Playlist, error) {
	return s.owned(ctx, userID, playlistID)
}

// List pages the caller's playlists, most recently touched first, each
// with its video count and the thumbnail of its newest entry.
func (s *Service) List(ctx context.Context, userID uuid.UUID, cursor *pagination.TimeCursor, limit int) (*Page, error) {
	return s.list(ctx, userID, nil, cursor, limit)
}

// ListForVideo pages the caller's playlists with a flag telling
// whether each already contains the given video.
func (s *Service) ListForVideo(ctx context.Context, userID, videoID uuid.UUID, cursor *pagination.TimeCursor, limit int) (*Page, error) {
	return s.list(ctx, userID, &videoID, cursor, limit)
}

func (s *Service) list(ctx context.Context, userID uuid.UUID, videoID *uuid.UUID, cursor *pagination.TimeCursor, limit int) (*Page, error) {
	limit = pagination.Clamp(limit, s.paging.DefaultLimit, s.paging.MaxLimit)

	q := s.db.WithContext(ctx).Model(&Playlist{}).Where("user_id = ?", userID)
	if cursor != nil {
		q = q.Where("updated_at < ? OR (updated_at = ? AND id < ?)", cursor.Key, cursor.Key, cursor.ID)
	}

	var playlists []Playlist
	if err := q.Order("updated_at DESC, id DESC").Limit(limit + 1).Find(&playlists).Error; err != nil {
		return nil, apperr.Internal("failed to list playlists", err)
	}
	playlists, hasMore := pagination.Trim(playlists, limit)

	items := make([]Item, 0, len(playlists))
	if len(playlists) > 0 {
		playlistIDs := make([]uuid.UUID, 0, len(playlists))
		for _, p := range playlists {
			playlistIDs = append(playlistIDs, p.ID)
		}

		var countRows []struct {
			PlaylistID uuid.UUID
			Count      int64
		}
		if err := s.db.WithContext(ctx).Model(&PlaylistVideo{}).
			Select("playlist_id, COUNT(*) AS count").
			Where("playlist_id IN ?", playlistIDs).
			Group("playlist_id").
			Scan(&countRows).Error; err != nil {
			return nil, apperr.Internal("failed to count playlist videos", err)
		}
		countByID := make(map[uuid.UUID]int64, len(countRows))
		for _, row := range countRows {
			countByID[row.PlaylistID] = row.Count
		}

		var coverRows []struct {
			PlaylistID   uuid.UUID
			ThumbnailURL *string
		}
		if err := s.db.WithContext(ctx).Table("playlist_videos").
			Select("playlist_videos.playlist_id, videos.thumbnail_url").
			Joins("JOIN videos ON videos.id = playlist_videos.video_id").
			Where("playlist_videos.playlist_id IN ?", playlistIDs).
			Order("playlist_videos.updated_at DESC").
			Scan(&coverRows).Error; err != nil {
			return nil, apperr.Internal("failed to load playlist covers", err)
		}
		coverByID := make(map[uuid.UUID]*string, len(playlistIDs))
		for _, row := range coverRows {
			if _, ok := coverByID[row.PlaylistID]; !ok {
				coverByID[row.PlaylistID] = row.ThumbnailURL
			}
		}

		contains := make(map[uuid.UUID]bool)
		if videoID != nil {
			var memberRows []struct{ PlaylistID uuid.UUID }
			if err := s.db.WithContext(ctx).Model(&PlaylistVideo{}).
				Select("playlist_id").
				Where("playlist_id IN ? AND video_id = ?", playlistIDs, *videoID).
				Scan(&memberRows).Error; err != nil {
				return nil, apperr.Internal("failed to check playlist membership", err)
			}
			for _, row := range memberRows {
				contains[row.PlaylistID] = true
			}
		}

		for _, p := range playlists {
			items = append(items, Item{
				Playlist:      p,
				VideoCount:    countByID[p.ID],
				ThumbnailURL:  coverByID[p.ID],
				ContainsVideo: contains[p.ID],
			})
		}
	}

	page := &Page{Items: items}
	if hasMore {
		last := playlists[len(playlists)-1]
		token, err := pagination.Encode(&pagination.TimeCursor{ID: last.ID, Key: last.UpdatedAt})
		if err != nil {
			return nil, apperr.Internal("failed to encode cursor", err)
		}
		page.NextCursor = token
	}
	return page, nil
}

// AddVideo links a video into a playlist the caller owns.
func (s *Service) AddVideo(ctx context.Context, userID, playlistID, videoID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, playlistID); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&video.Video{}).Where("id = ?", videoID).Count(&count).Error; err != nil {
		return apperr.Internal("failed to check video", err)
	}
	if count == 0 {
		return apperr.NotFound("video not found")
	}

	if err := s.db.WithContext(ctx).Model(&PlaylistVideo{}).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Count(&count).Error; err != nil {
		return apperr.Internal("failed to check playlist membership", err)
	}
	if count > 0 {
		return apperr.BadRequest("video is already in the playlist")
	}

	entry := PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return apperr.Internal("failed to add video to playlist", err)
	}
	return nil
}

// RemoveVideo unlinks a video from a playlist the caller owns.
func (s *Service) RemoveVideo(ctx context.Context, userID, playlistID, videoID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, playlistID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&PlaylistVideo{})
	if result.Error != nil {
		return apperr.Internal("failed to remove video from playlist", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("video is not in the playlist")
	}
	return nil
}

// GetVideos pages the contents of a playlist the caller owns, most
// recently added first.
func (s *Service) GetVideos(ctx context.Context, userID, playlistID uuid.UUID, cursor *pagination.TimeCursor, limit int) (*VideoPage, error) {
	if _, err := s.owned(ctx, userID, playlistID); err != nil {
		return nil, err
	}
	limit = pagination.Clamp(limit, s.paging.DefaultLimit, s.paging.MaxLimit)

	q := s.db.WithContext(ctx).Model(&video.Video{}).
		Select("videos.*, playlist_videos.updated_at AS added_at").
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.id AND playlist_videos.playlist_id = ?", playlistID)
	if cursor != nil {
		q = q.Where("playlist_videos.updated_at < ? OR (playlist_videos.updated_at = ? AND videos.id < ?)",
			cursor.Key, cursor.Key, cursor.ID)
	}

	type memberRow struct {
		video.Video `gorm:"embedded"`
		AddedAt     time.Time
	}
	var rows []memberRow
	if err := q.Order("playlist_videos.updated_at DESC, videos.id DESC").Limit(limit + 1).Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to list playlist videos", err)
	}
	rows, hasMore := pagination.Trim(rows, limit)

	videos := make([]video.Video, 0, len(rows))
	for _, row := range rows {
		videos = append(videos, row.Video)
	}
	items, err := s.videos.Enrich(ctx, videos)
	if err != nil {
		return nil, err
	}

	page := &VideoPage{Items: items}
	if hasMore {
		last := rows[len(rows)-1]
		token, err := pagination.Encode(&pagination.TimeCursor{ID: last.ID, Key: last.AddedAt})
		if err != nil {
			return nil, apperr.Internal("failed to encode cursor", err)
		}
		page.NextCursor = token
	}
	return page, nil
}

// History pages the videos the caller has watched, most recent first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, cursor *pagination.TimeCursor, limit int) (*VideoPage, error) {
	q := s.db.WithContext(ctx).Model(&video.Video{}).
		Select("videos.*, video_views.updated_at AS marked_at").
		Joins("JOIN video_views ON video_views.video_id = videos.id AND video_views.user_id = ?", userID)
	return s.markedVideos(ctx, q, "video_views", cursor, limit)
}

// Liked pages the videos the caller currently likes, most recently
// liked first.
func (s *Service) Liked(ctx context.Context, userID uuid.UUID, cursor *pagination.TimeCursor, limit int) (*VideoPage, error) {
	q := s.db.WithContext(ctx).Model(&video.Video{}).
		Select("videos.*, video_reactions.updated_at AS marked_at").
		Joins("JOIN video_reactions ON video_reactions.video_id = videos.id AND video_reactions.user_id = ? AND video_reactions.type = ?",
			userID, "like")
	return s.markedVideos(ctx, q, "video_reactions", cursor, limit)
}

func (s *Service) markedVideos(ctx context.Context, q *gorm.DB, joinTable string, cursor *pagination.TimeCursor, limit int) (*VideoPage, error) {
	limit = pagination.Clamp(limit, s.paging.DefaultLimit, s.paging.MaxLimit)

	if cursor != nil {
		q = q.Where(joinTable+".updated_at < ? OR ("+joinTable+".updated_at = ? AND videos.id < ?)",
			cursor.Key, cursor.Key, cursor.ID)
	}

	type markedRow struct {
		video.Video `gorm:"embedded"`
		MarkedAt    time.Time
	}
	var rows []markedRow
	if err := q.Order(joinTable + ".updated_at DESC, videos.id DESC").Limit(limit + 1).Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to list videos", err)
	}
	rows, hasMore := pagination.Trim(rows, limit)

	videos := make([]video.Video, 0, len(rows))
	for _, row := range rows {
		videos = append(videos, row.Video)
	}
	items, err := s.videos.Enrich(ctx, videos)
	if err != nil {
		return nil, err
	}

	page := &VideoPage{Items: items}
	if hasMore {
		last := rows[len(rows)-1]
		token, err := pagination.Encode(&pagination.TimeCursor{ID: last.ID, Key: last.MarkedAt})
		if err != nil {
			return nil, apperr.Internal("failed to encode cursor", err)
		}
		page.NextCursor = token
	}
	return page, nil
}

func (s *Service) owned(ctx context.Context, userID, playlistID uuid.UUID) (*Playlist, error) {
	var playlist Playlist
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", playlistID, userID).First(&playlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("playlist not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load playlist", err)
	}
	return &playlist, nil
}
