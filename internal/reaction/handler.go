package reaction

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/auth"
	apphttp "github.com/vidorahq/vidora/backend/internal/http"
	"github.com/vidorahq/vidora/backend/internal/logger"
)

type Handler struct {
	service  *Service
	logger   logger.Logger
	response apphttp.ResponseHandler
}

func NewHandler(service *Service, logger logger.Logger, response apphttp.ResponseHandler) *Handler {
	return &Handler{service: service, logger: logger, response: response}
}

type toggleRequest struct {
	Type Type `json:"type" binding:"required"`
}

// @Summary Toggle video reaction
// @Description Cycles the caller's like/dislike on a video
// @Tags reaction
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Success 200 {object} apphttp.Response{data=Result}
// @Router /videos/{id}/reactions [post]
func (h *Handler) HandleToggleVideo(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid video id")
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "body", "Invalid request body")
		return
	}

	result, err := h.service.ToggleVideo(c.Request.Context(), user.ID, videoID, req.Type)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, result, "Reaction updated")
}

// @Summary Toggle comment reaction
// @Description Cycles the caller's like/dislike on a comment
// @Tags reaction
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} apphttp.Response{data=Result}
// @Router /comments/{id}/reactions [post]
func (h *Handler) HandleToggleComment(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid comment id")
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "body", "Invalid request body")
		return
	}

	result, err := h.service.ToggleComment(c.Request.Context(), user.ID, commentID, req.Type)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, result, "Reaction updated")
}
