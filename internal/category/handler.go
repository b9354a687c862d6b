package category

import (
	"github.com/gin-gonic/gin"
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

// @Summary List categories
// @Description Returns all video categories ordered by name
// @Tags category
// @Produce json
// @Success 200 {object} apphttp.Response
// @Router /categories [get]
func (h *Handler) HandleList(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.LogError(err, "Failed to list categories")
		h.response.DomainErrorResponse(c, err)
		return
	}
	h.response.SuccessResponse(c, categories, "Categories retrieved")
}
