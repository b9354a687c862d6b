package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	httpHandler "github.com/vidorahq/vidora/backend/internal/http"
)

const contextUserKey = "currentUser"

// RequireUser authenticates the request, resolves the user row and
// applies the per-user rate limit. Requests without a valid session
// are rejected with UNAUTHORIZED before any domain code runs.
func RequireUser(tokens TokenService, service *Service, limiter *RateLimiter, response httpHandler.ResponseHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens)
		if !ok {
			response.UnauthorizedResponse(c, "A valid session is required")
			c.Abort()
			return
		}

		user, err := service.ResolveUser(c.Request.Context(), claims)
		if err != nil {
			response.UnauthorizedResponse(c, "Session user could not be resolved")
			c.Abort()
			return
		}

		if err := limiter.Allow(c.Request.Context(), user.ID); err != nil {
			response.DomainErrorResponse(c, err)
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Set("userID", user.ID.String())
		c.Next()
	}
}

// OptionalUser resolves the user when a valid session is present but
// never rejects the request. Public list endpoints use it to enrich
// rows with viewer-specific fields.
func OptionalUser(tokens TokenService, service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens)
		if !ok {
			c.Next()
			return
		}

		user, err := service.ResolveUser(c.Request.Context(), claims)
		if err != nil {
			c.Next()
			return
		}

		c.Set(contextUserKey, user)
		c.Set("userID", user.ID.String())
		c.Next()
	}
}

// CurrentUser returns the resolved user for the request, if any
func CurrentUser(c *gin.Context) (*User, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*User)
	return user, ok
}

func bearerClaims(c *gin.Context, tokens TokenService) (*TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := tokens.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
