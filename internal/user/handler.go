package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/auth"
	apphttp "github.com/vidorahq/vidora/backend/internal/http"
	"github.com/vidorahq/vidora/backend/internal/logger"
)

const maxBannerSize = 8 << 20

type Handler struct {
	service  *Service
	logger   logger.Logger
	response apphttp.ResponseHandler
}

func NewHandler(service *Service, logger logger.Logger, response apphttp.ResponseHandler) *Handler {
	return &Handler{service: service, logger: logger, response: response}
}

// @Summary Get channel profile
// @Tags user
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} apphttp.Response{data=Profile}
// @Router /users/{id} [get]
func (h *Handler) HandleGetOne(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid user id")
		return
	}

	var viewerID *uuid.UUID
	if viewer, ok := auth.CurrentUser(c); ok {
		viewerID = &viewer.ID
	}

	profile, err := h.service.GetOne(c.Request.Context(), userID, viewerID)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, profile, "User retrieved")
}

// @Summary Get own profile
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} apphttp.Response{data=Profile}
// @Router /users/me [get]
func (h *Handler) HandleGetMe(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	profile, err := h.service.GetOne(c.Request.Context(), user.ID, &user.ID)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, profile, "User retrieved")
}

// @Summary Update own profile
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /users/me [patch]
func (h *Handler) HandleUpdateMe(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "name", "Name is required")
		return
	}

	updated, err := h.service.UpdateName(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, updated, "User updated")
}

// @Summary Upload channel banner
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param banner formData file true "Banner image"
// @Router /users/me/banner [post]
func (h *Handler) HandleUploadBanner(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	file, header, err := c.Request.FormFile("banner")
	if err != nil {
		h.response.ValidationErrorResponse(c, "banner", "Banner file is required")
		return
	}
	defer file.Close()

	if header.Size > maxBannerSize {
		h.response.ValidationErrorResponse(c, "banner", "Banner must be 8MB or smaller")
		return
	}

	contentType := header.Header.Get("Content-Type")
	updated, err := h.service.UploadBanner(c.Request.Context(), user.ID, file, header.Size, contentType)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, updated, "Banner updated")
}
