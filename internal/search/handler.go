package search

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apphttp "github.com/vidorahq/vidora/backend/internal/http"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/pagination"
	"github.com/vidorahq/vidora/backend/internal/video"
)

type Handler struct {
	service  *Service
	logger   logger.Logger
	response apphttp.ResponseHandler
}

func NewHandler(service *Service, logger logger.Logger, response apphttp.ResponseHandler) *Handler {
	return &Handler{service: service, logger: logger, response: response}
}

// @Summary Search videos
// @Description Matches public videos by title and description
// @Tags search
// @Produce json
// @Param query query string true "Search terms"
// @Param categoryId query string false "Category filter"
// @Param cursor query string false "Opaque page cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} apphttp.Response{data=video.Page}
// @Router /search [get]
func (h *Handler) HandleSearch(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.response.ValidationErrorResponse(c, "categoryId", "Invalid category id")
			return
		}
		categoryID = &id
	}

	cursor, err := pagination.DecodeTime(c.Query("cursor"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "cursor", "Invalid cursor")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			limit = 0
		}
	}

	items, next, err := h.service.Search(c.Request.Context(), c.Query("query"), categoryID, cursor, limit)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	page := video.Page{Items: items}
	if next != nil {
		token, err := pagination.Encode(next)
		if err != nil {
			h.response.InternalErrorResponse(c, "Failed to encode cursor", err)
			return
		}
		page.NextCursor = token
	}
	h.response.SuccessResponse(c, page, "Search results retrieved")
}
