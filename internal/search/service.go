// Package search serves the public search page: substring matching
// over public video titles and descriptions, optionally narrowed to a
// category, with the same keyset pagination as every other listing.
package search

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/pagination"
	"github.com/vidorahq/vidora/backend/internal/video"
)

type Service struct {
	videos *video.Service
	logger logger.Logger
}

func NewService(videos *video.Service, logger logger.Logger) *Service {
	return &Service{videos: videos, logger: logger}
}

// Search pages public videos matching the query, newest first.
func (s *Service) Search(ctx context.Context, query string, categoryID *uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]video.ListItem, *pagination.TimeCursor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil, apperr.BadRequest("query cannot be empty")
	}

	return s.videos.GetMany(ctx, video.ListParams{
		Query:      query,
		CategoryID: categoryID,
		Cursor:     cursor,
		Limit:      limit,
	})
}
