package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vidorahq/vidora/backend/internal/config"
	"github.com/vidorahq/vidora/backend/internal/logger"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	bootstrapLogger, err := logger.NewService(&logger.Config{
		Level:  logger.InfoLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	configService := config.NewConfigService(bootstrapLogger)
	cfg, err := configService.Load(".")
	if err != nil {
		bootstrapLogger.LogFatal(err, "failed to load configuration")
	}

	log, err := logger.NewService(&logger.Config{
		Level:       logger.Level(cfg.Logging.Level),
		Format:      cfg.Logging.Format,
		Output:      cfg.Logging.Output,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		bootstrapLogger.LogFatal(err, "failed to initialize logger")
	}

	app, err := NewApp(context.Background(), cfg, log)
	if err != nil {
		log.LogFatal(err, "failed to initialize application")
	}
	defer app.Shutdown()

	if err := app.Run(); err != nil {
		log.LogFatal(err, "server stopped")
	}
}
