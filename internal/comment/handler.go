package comment

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/auth"
	apphttp "github.com/vidorahq/vidora/backend/internal/http"
	"github.com/vidorahq/vidora/backend/internal/logger"
	"github.com/vidorahq/vidora/backend/internal/pagination"
)

type Handler struct {
	service  *Service
	logger   logger.Logger
	response apphttp.ResponseHandler
}

func NewHandler(service *Service, logger logger.Logger, response apphttp.ResponseHandler) *Handler {
	return &Handler{service: service, logger: logger, response: response}
}

// @Summary Post comment
// @Description Creates a comment, or a reply when parentId is set
// @Tags comment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} apphttp.Response{data=Comment}
// @Router /comments [post]
func (h *Handler) HandleCreate(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "body", "Invalid request body")
		return
	}

	comment, err := h.service.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, comment, "Comment created")
}

// @Summary List comments
// @Description Pages one thread level: top-level comments, or the replies under rootId
// @Tags comment
// @Produce json
// @Param videoId query string true "Video ID"
// @Param rootId query string false "Top-level comment whose replies to list"
// @Param cursor query string false "Opaque page cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} apphttp.Response{data=Page}
// @Router /comments [get]
func (h *Handler) HandleList(c *gin.Context) {
	videoID, err := uuid.Parse(c.Query("videoId"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "videoId", "Invalid video id")
		return
	}

	var rootID *uuid.UUID
	if raw := c.Query("rootId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.response.ValidationErrorResponse(c, "rootId", "Invalid root comment id")
			return
		}
		rootID = &id
	}

	var viewerID *uuid.UUID
	if user, ok := auth.CurrentUser(c); ok {
		viewerID = &user.ID
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

	page, err := h.service.List(c.Request.Context(), videoID, rootID, viewerID, cursor, limit)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, page, "Comments retrieved")
}

// @Summary Delete comment
// @Tags comment
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Router /comments/{id} [delete]
func (h *Handler) HandleRemove(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid comment id")
		return
	}

	if err := h.service.Remove(c.Request.Context(), user.ID, commentID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"id": commentID}, "Comment deleted")
}
