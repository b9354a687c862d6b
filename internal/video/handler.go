package video

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

// @Summary Create video draft
// @Description Registers a direct upload and returns the draft video with its upload URL
// @Tags video
// @Produce json
// @Security BearerAuth
// @Success 200 {object} apphttp.Response{data=CreateResult}
// @Router /videos [post]
func (h *Handler) HandleCreate(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	result, err := h.service.Create(c.Request.Context(), user.ID)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, result, "Video draft created")
}

// @Summary Update video
// @Tags video
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Router /videos/{id} [patch]
func (h *Handler) HandleUpdate(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "body", "Invalid request body")
		return
	}

	video, err := h.service.Update(c.Request.Context(), user.ID, videoID, req)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, video, "Video updated")
}

// @Summary Delete video
// @Tags video
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Router /videos/{id} [delete]
func (h *Handler) HandleRemove(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), user.ID, videoID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"id": videoID}, "Video deleted")
}

// @Summary Get video
// @Description Returns the watch-page projection of a single video
// @Tags video
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} apphttp.Response{data=Detail}
// @Router /videos/{id} [get]
func (h *Handler) HandleGetOne(c *gin.Context) {
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	var viewerID *uuid.UUID
	if user, ok := auth.CurrentUser(c); ok {
		viewerID = &user.ID
	}

	detail, err := h.service.GetOne(c.Request.Context(), videoID, viewerID)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, detail, "Video retrieved")
}

// @Summary List videos
// @Description Public listing, newest first, optionally filtered by category
// @Tags video
// @Produce json
// @Param categoryId query string false "Category filter"
// @Param cursor query string false "Opaque page cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} apphttp.Response{data=Page}
// @Router /videos [get]
func (h *Handler) HandleGetMany(c *gin.Context) {
	params := ListParams{Limit: h.limit(c)}

	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.response.ValidationErrorResponse(c, "categoryId", "Invalid category id")
			return
		}
		params.CategoryID = &id
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.response.ValidationErrorResponse(c, "userId", "Invalid user id")
			return
		}
		params.OwnerID = &id
	}

	cursor, err := pagination.DecodeTime(c.Query("cursor"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "cursor", "Invalid cursor")
		return
	}
	params.Cursor = cursor

	items, next, err := h.service.GetMany(c.Request.Context(), params)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.respondPage(c, items, next)
}

// @Summary List own videos
// @Description Studio listing: the caller's videos including private drafts
// @Tags video
// @Produce json
// @Security BearerAuth
// @Success 200 {object} apphttp.Response{data=Page}
// @Router /studio/videos [get]
func (h *Handler) HandleGetStudio(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	cursor, err := pagination.DecodeTime(c.Query("cursor"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "cursor", "Invalid cursor")
		return
	}

	items, next, err := h.service.GetMany(c.Request.Context(), ListParams{
		OwnerID:        &user.ID,
		IncludePrivate: true,
		Cursor:         cursor,
		Limit:          h.limit(c),
	})
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.respondPage(c, items, next)
}

// @Summary List trending videos
// @Tags video
// @Produce json
// @Success 200 {object} apphttp.Response{data=Page}
// @Router /videos/trending [get]
func (h *Handler) HandleGetTrending(c *gin.Context) {
	cursor, err := pagination.DecodeCount(c.Query("cursor"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "cursor", "Invalid cursor")
		return
	}

	items, next, err := h.service.GetTrending(c.Request.Context(), cursor, h.limit(c))
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	page := Page{Items: items}
	if next != nil {
		token, err := pagination.Encode(next)
		if err != nil {
			h.response.InternalErrorResponse(c, "Failed to encode cursor", err)
			return
		}
		page.NextCursor = token
	}
	h.response.SuccessResponse(c, page, "Videos retrieved")
}

// @Summary Subscription feed
// @Description Videos from creators the caller follows
// @Tags video
// @Produce json
// @Security BearerAuth
// @Success 200 {object} apphttp.Response{data=Page}
// @Router /feed/subscriptions [get]
func (h *Handler) HandleGetSubscribed(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	cursor, err := pagination.DecodeTime(c.Query("cursor"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "cursor", "Invalid cursor")
		return
	}

	items, next, err := h.service.GetSubscribed(c.Request.Context(), user.ID, cursor, h.limit(c))
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.respondPage(c, items, next)
}

// @Summary Revalidate video state
// @Description Pulls the transcode provider's current state onto the video
// @Tags video
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Router /videos/{id}/revalidate [post]
func (h *Handler) HandleRevalidate(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	video, err := h.service.Revalidate(c.Request.Context(), user.ID, videoID)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, video, "Video revalidated")
}

// @Summary Restore provider thumbnail
// @Tags video
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Router /videos/{id}/thumbnail/restore [post]
func (h *Handler) HandleRestoreThumbnail(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	video, err := h.service.RestoreThumbnail(c.Request.Context(), user.ID, videoID)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, video, "Thumbnail restored")
}

// @Summary Generate title
// @Tags video
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Router /videos/{id}/generate/title [post]
func (h *Handler) HandleGenerateTitle(c *gin.Context) {
	h.handleGenerate(c, func(ctx *gin.Context, userID, videoID uuid.UUID) (string, error) {
		return h.service.GenerateTitle(ctx.Request.Context(), userID, videoID)
	})
}

// @Summary Generate description
// @Tags video
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Router /videos/{id}/generate/description [post]
func (h *Handler) HandleGenerateDescription(c *gin.Context) {
	h.handleGenerate(c, func(ctx *gin.Context, userID, videoID uuid.UUID) (string, error) {
		return h.service.GenerateDescription(ctx.Request.Context(), userID, videoID)
	})
}

// @Summary Generate thumbnail
// @Tags video
// @Accept json
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Router /videos/{id}/generate/thumbnail [post]
func (h *Handler) HandleGenerateThumbnail(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "body", "Invalid request body")
		return
	}
	h.handleGenerate(c, func(ctx *gin.Context, userID, videoID uuid.UUID) (string, error) {
		return h.service.GenerateThumbnail(ctx.Request.Context(), userID, videoID, req.Prompt)
	})
}

// @Summary Record video view
// @Tags video
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Router /videos/{id}/views [post]
func (h *Handler) HandleCreateView(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	if err := h.service.CreateView(c.Request.Context(), user.ID, videoID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"videoId": videoID}, "View recorded")
}

func (h *Handler) handleGenerate(c *gin.Context, run func(*gin.Context, uuid.UUID, uuid.UUID) (string, error)) {
	user, _ := auth.CurrentUser(c)
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	runID, err := run(c, user.ID, videoID)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"workflowRunId": runID}, "Job started")
}

func (h *Handler) videoID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid video id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) limit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

func (h *Handler) respondPage(c *gin.Context, items []ListItem, next *pagination.TimeCursor) {
	page := Page{Items: items}
	if next != nil {
		token, err := pagination.Encode(next)
		if err != nil {
			h.response.InternalErrorResponse(c, "Failed to encode cursor", err)
			return
		}
		page.NextCursor = token
	}
	h.response.SuccessResponse(c, page, "Videos retrieved")
}
