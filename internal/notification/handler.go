package notification

import (
	"io"
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

// @Summary List notifications
// @Tags notification
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Opaque page cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} apphttp.Response{data=Page}
// @Router /notifications [get]
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
	h.response.SuccessResponse(c, page, "Notifications retrieved")
}

// @Summary Unread notification count
// @Tags notification
// @Produce json
// @Security BearerAuth
// @Router /notifications/unread-count [get]
func (h *Handler) HandleUnreadCount(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	count, err := h.service.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"count": count}, "Unread count retrieved")
}

// @Summary Mark notification read
// @Tags notification
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Router /notifications/{id}/read [post]
func (h *Handler) HandleMarkRead(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid notification id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), user.ID, notificationID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"id": notificationID}, "Notification marked read")
}

// @Summary Mark all notifications read
// @Tags notification
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *Handler) HandleMarkAllRead(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	if err := h.service.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, nil, "Notifications marked read")
}

// @Summary Delete notification
// @Tags notification
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Router /notifications/{id} [delete]
func (h *Handler) HandleRemove(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid notification id")
		return
	}

	if err := h.service.Remove(c.Request.Context(), user.ID, notificationID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"id": notificationID}, "Notification deleted")
}

// @Summary Notification event stream
// @Description Server-sent events delivering the caller's notifications as they are stored
// @Tags notification
// @Produce text/event-stream
// @Security BearerAuth
// @Router /notifications/stream [get]
func (h *Handler) HandleStream(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	events, cancel := h.service.Subscribe(user.ID)
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("notification", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
