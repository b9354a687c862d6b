package playlist

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

// @Summary Create playlist
// @Tags playlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} apphttp.Response{data=Playlist}
// @Router /playlists [post]
func (h *Handler) HandleCreate(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "name", "Playlist name is required")
		return
	}

	playlist, err := h.service.Create(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, playlist, "Playlist created")
}

// @Summary Delete playlist
// @Tags playlist
// @Security BearerAuth
// @Param id path string true "Playlist ID"
// @Router /playlists/{id} [delete]
func (h *Handler) HandleRemove(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	playlistID, ok := h.playlistID(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), user.ID, playlistID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"id": playlistID}, "Playlist deleted")
}

// @Summary Get playlist
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Playlist ID"
// @Router /playlists/{id} [get]
func (h *Handler) HandleGetOne(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	playlistID, ok := h.playlistID(c)
	if !ok {
		return
	}

	playlist, err := h.service.GetOne(c.Request.Context(), user.ID, playlistID)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, playlist, "Playlist retrieved")
}

// @Summary List playlists
// @Description The caller's playlists; videoId adds a containment flag per playlist
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Param videoId query string false "Video to check membership for"
// @Success 200 {object} apphttp.Response{data=Page}
// @Router /playlists [get]
func (h *Handler) HandleList(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	cursor, limit, ok := h.paging(c)
	if !ok {
		return
	}

	var page *Page
	var err error
	if raw := c.Query("videoId"); raw != "" {
		videoID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			h.response.ValidationErrorResponse(c, "videoId", "Invalid video id")
			return
		}
		page, err = h.service.ListForVideo(c.Request.Context(), user.ID, videoID, cursor, limit)
	} else {
		page, err = h.service.List(c.Request.Context(), user.ID, cursor, limit)
	}
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, page, "Playlists retrieved")
}

// @Summary Add video to playlist
// @Tags playlist
// @Security BearerAuth
// @Param id path string true "Playlist ID"
// @Param videoId path string true "Video ID"
// @Router /playlists/{id}/videos/{videoId} [post]
func (h *Handler) HandleAddVideo(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	playlistID, videoID, ok := h.memberIDs(c)
	if !ok {
		return
	}

	if err := h.service.AddVideo(c.Request.Context(), user.ID, playlistID, videoID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"playlistId": playlistID, "videoId": videoID}, "Video added to playlist")
}

// @Summary Remove video from playlist
// @Tags playlist
// @Security BearerAuth
// @Param id path string true "Playlist ID"
// @Param videoId path string true "Video ID"
// @Router /playlists/{id}/videos/{videoId} [delete]
func (h *Handler) HandleRemoveVideo(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	playlistID, videoID, ok := h.memberIDs(c)
	if !ok {
		return
	}

	if err := h.service.RemoveVideo(c.Request.Context(), user.ID, playlistID, videoID); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"playlistId": playlistID, "videoId": videoID}, "Video removed from playlist")
}

// @Summary List playlist videos
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Playlist ID"
// @Success 200 {object} apphttp.Response{data=VideoPage}
// @Router /playlists/{id}/videos [get]
func (h *Handler) HandleGetVideos(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	playlistID, ok := h.playlistID(c)
	if !ok {
		return
	}

	cursor, limit, ok := h.paging(c)
	if !ok {
		return
	}

	page, err := h.service.GetVideos(c.Request.Context(), user.ID, playlistID, cursor, limit)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, page, "Playlist videos retrieved")
}

// @Summary Watch history
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} apphttp.Response{data=VideoPage}
// @Router /playlists/history [get]
func (h *Handler) HandleHistory(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	cursor, limit, ok := h.paging(c)
	if !ok {
		return
	}

	page, err := h.service.History(c.Request.Context(), user.ID, cursor, limit)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, page, "History retrieved")
}

// @Summary Liked videos
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} apphttp.Response{data=VideoPage}
// @Router /playlists/liked [get]
func (h *Handler) HandleLiked(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	cursor, limit, ok := h.paging(c)
	if !ok {
		return
	}

	page, err := h.service.Liked(c.Request.Context(), user.ID, cursor, limit)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, page, "Liked videos retrieved")
}

func (h *Handler) playlistID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid playlist id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) memberIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	playlistID, ok := h.playlistID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "videoId", "Invalid video id")
		return uuid.Nil, uuid.Nil, false
	}
	return playlistID, videoID, true
}

func (h *Handler) paging(c *gin.Context) (*pagination.TimeCursor, int, bool) {
	cursor, err := pagination.DecodeTime(c.Query("cursor"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "cursor", "Invalid cursor")
		return nil, 0, false
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			limit = 0
		}
	}
	return cursor, limit, true
}
