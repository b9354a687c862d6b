package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vidorahq/vidora/backend/internal/config"
)

// Service manages the application's database connection
type Service struct {
	config *config.DatabaseConfig
	logger Logger
	db     *gorm.DB
}

// NewService creates a new database service instance
func NewService(config *config.DatabaseConfig, logger Logger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// Connect establishes a connection to the database
func (s *Service) Connect() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		s.config.Host,
		s.config.User,
		s.config.Password,
		s.config.Dbname,
		s.config.Port,
		s.config.Sslmode,
		s.config.Timezone,
	)

	s.logger.LogInfo(fmt.Sprintf("Connecting to database host=%s dbname=%s port=%d",
		s.config.Host, s.config.Dbname, s.config.Port), nil)

	gormConfig := &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(s.config.Pool.MaxOpen)
	sqlDB.SetMaxIdleConns(s.config.Pool.MaxIdle)

	s.db = db
	return db, nil
}

// Migrate applies the schema for the given models
func (s *Service) Migrate(models ...interface{}) error {
	if s.db == nil {
		return fmt.Errorf("database is not connected")
	}
	if err := s.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}
	s.logger.LogInfo("Database migrations applied", map[string]interface{}{
		"models": len(models),
	})
	return nil
}

// Close closes the underlying connection pool
func (s *Service) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
