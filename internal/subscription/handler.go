package subscription

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

// @Summary Subscribe to creator
// @Tags subscription
// @Security BearerAuth
// @Param id path string true "Creator user ID"
// @Router /users/{id}/subscription [post]
func (h *Handler) HandleSubscribe(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	creatorID, ok := h.creatorID(c)
	if !ok {
		return
	}

	if err := h.service.Subscribe(c.Request.Context(), user.ID, creatorID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"creatorId": creatorID}, "Subscribed")
}

// @Summary Unsubscribe from creator
// @Tags subscription
// @Security BearerAuth
// @Param id path string true "Creator user ID"
// @Router /users/{id}/subscription [delete]
func (h *Handler) HandleUnsubscribe(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	creatorID, ok := h.creatorID(c)
	if !ok {
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), user.ID, creatorID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"creatorId": creatorID}, "Unsubscribed")
}

// @Summary List subscriptions
// @Description Creators the caller follows, most recently followed first
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} apphttp.Response{data=Page}
// @Router /subscriptions [get]
func (h *Handler) HandleList(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

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

	page, err := h.service.List(c.Request.Context(), user.ID, cursor, limit)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, page, "Subscriptions retrieved")
}

func (h *Handler) creatorID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid user id")
		return uuid.Nil, false
	}
	return id, true
}
