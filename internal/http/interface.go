package http

import (
	"github.com/gin-gonic/gin"
)

// ResponseHandler handles HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	ErrorResponse(c *gin.Context, status int, code, message string, err error)
	ValidationErrorResponse(c *gin.Context, field, message string)
	NotFoundResponse(c *gin.Context, message string)
	UnauthorizedResponse(c *gin.Context, message string)
	InternalErrorResponse(c *gin.Context, message string, err error)

	// DomainErrorResponse maps a typed domain error to the matching
	// HTTP status and error code.
	DomainErrorResponse(c *gin.Context, err error)
}

// Logger is the logging surface the response handler needs
type Logger interface {
	LogError(err error, msg string) error
}
