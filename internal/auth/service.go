package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vidorahq/vidora/backend/internal/apperr"
)

// Service resolves external auth-provider identities to user rows
type Service struct {
	db     *gorm.DB
	logger Logger
}

// NewService creates a new identity resolver
func NewService(db *gorm.DB, logger Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// ResolveUser maps the token's external identity to an internal user
// row, creating it on first authenticated access. A concurrent first
// request for the same identity is absorbed by the unique constraint
// on external_id.
func (s *Service) ResolveUser(ctx context.Context, claims *TokenClaims) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("external_id = ?", claims.Subject).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to look up user", err)
	}

	user = User{
		ExternalID: claims.Subject,
		Name:       claims.Name,
		ImageURL:   claims.Picture,
	}
	if user.Name == "" {
		user.Name = "New user"
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		Create(&user).Error
	if err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}

	// Re-read to cover the conflict path, where Create inserted nothing.
	if err := s.db.WithContext(ctx).Where("external_id = ?", claims.Subject).First(&user).Error; err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}

	s.logger.LogInfo("Resolved user identity", map[string]interface{}{
		"userID": user.ID.String(),
	})
	return &user, nil
}

// GetByID loads a user row by its internal id
func (s *Service) GetByID(ctx context.Context, id interface{}) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return &user, nil
}
