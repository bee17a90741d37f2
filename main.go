// main.go
package main

import (
	"context"
	"log"
	"time"

	"hospital-queue/cmd"
	"hospital-queue/internal/data/repository"
	"hospital-queue/internal/usecase"
	"hospital-queue/internal/wire"
	"hospital-queue/pkg/database"
	"hospital-queue/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Apply schema migrations
	if config.Database.MigrateOnStart {
		if err := database.RunMigrations(config.Database); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Connect to redis for the reaper lease. The scheduler works without
	// it, so a missing redis only downgrades the sweep to single-instance.
	rdb, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, lock reaper runs without a lease", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	// Background sweep of expired slot locks
	reaper := usecase.NewLockReaper(
		repos.Slot,
		rdb,
		time.Duration(config.Scheduling.ReaperIntervalSeconds)*time.Second,
		time.Duration(config.Scheduling.ReaperLeaseSeconds)*time.Second,
		logger,
	)
	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go reaper.Run(reaperCtx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
