package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vidorahq/vidora/backend/internal/config"
)

// Config represents authentication configuration
type Config struct {
	JWTSecret string
	RateLimit struct {
		Requests int
		Window   time.Duration
	}
}

// NewConfigFromAuthConfig creates an auth.Config from config.AuthConfig
func NewConfigFromAuthConfig(cfg *config.AuthConfig) *Config {
	authConfig := &Config{}
	authConfig.JWTSecret = cfg.JWT.Secret
	authConfig.RateLimit.Requests = cfg.RateLimit.Requests
	authConfig.RateLimit.Window = cfg.RateLimit.Window
	return authConfig
}

// TokenClaims represents the identity claims carried by a session token.
// Subject holds the external auth-provider id.
type TokenClaims struct {
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Logger is the logging surface the auth package needs
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogWarn(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
}
