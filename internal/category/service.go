package category

import (
	"context"

	"github.com/vidorahq/vidora/backend/internal/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seedNames is the canonical category set, inserted once at startup.
var seedNames = []string{
	"Cars and vehicles",
	"Comedy",
	"Education",
	"Gaming",
	"Entertainment",
	"Film and animation",
	"How-to and style",
	"Music",
	"News and politics",
	"People and blogs",
	"Pets and animals",
	"Science and technology",
	"Sports",
	"Travel and events",
}

type Service struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewService(db *gorm.DB, logger logger.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Seed inserts the canonical categories, skipping names that already exist.
func (s *Service) Seed(ctx context.Context) error {
	categories := make([]Category, 0, len(seedNames))
	for _, name := range seedNames {
		categories = append(categories, Category{
			Name:        name,
			Description: "Videos related to " + name,
		})
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&categories).Error; err != nil {
		return err
	}
	s.logger.LogDebug("Category seed completed", map[string]interface{}{"count": len(categories)})
	return nil
}

// List returns all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Exists reports whether a category with the given id is present.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
