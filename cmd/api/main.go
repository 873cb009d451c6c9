package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/api"
	"github.com/swipebite/backend/internal/clients/openai"
	"github.com/swipebite/backend/internal/clients/serpapi"
	"github.com/swipebite/backend/internal/database"
	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/server"
	"github.com/swipebite/backend/internal/service"
	"github.com/swipebite/backend/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLog, err := logger.New(string(config.GetEnvironment()))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.New(cfg, appLog)
	if err != nil {
		appLog.Fatalw("failed to connect to database", "error", err)
	}

	health, err := database.NewHealthPool(cfg)
	if err != nil {
		appLog.Warnw("health pool unavailable", "error", err)
	}

	// Redis, OpenAI, SerpAPI and S3 are all optional. Missing pieces
	// disable their features instead of blocking startup.
	redisClient, err := database.NewRedisClient(cfg, appLog)
	if err != nil {
		appLog.Warnw("redis unavailable, caching and rate limiting disabled", "error", err)
		redisClient = nil
	}

	aiClient := openai.New(cfg, appLog)
	if !aiClient.IsConfigured() {
		appLog.Warnw("openai not configured, assistant will answer with canned responses")
	}

	serpClient := serpapi.New(cfg, appLog)
	if !serpClient.IsConfigured() {
		appLog.Warnw("serpapi not configured, discovery and image lookup disabled")
	}

	var s3cfg *config.S3Config
	if serpClient.IsConfigured() {
		s3cfg, err = config.NewS3Config(context.Background(), cfg)
		if err != nil {
			appLog.Warnw("s3 unavailable, dish images will link to their source", "error", err)
			s3cfg = nil
		}
	}

	imageService := service.NewDishImageService(db, serpClient, s3cfg, appLog)
	pool := worker.NewPool(imageService, cfg.ImageWorkerCount, cfg.ImageQueueSize, appLog)
	poolCtx, poolCancel := context.WithCancel(context.Background())
	defer poolCancel()
	pool.Start(poolCtx)

	srv := server.New(cfg, api.Deps{
		DB:     db,
		Health: health,
		Redis:  redisClient,
		Config: cfg,
		Log:    appLog,
		OpenAI: aiClient,
		Serp:   serpClient,
		Images: pool,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			appLog.Fatalw("server error", "error", err)
		}
	case sig := <-quit:
		appLog.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Errorw("server shutdown error", "error", err)
	}
	pool.Shutdown()
	appLog.Infow("server stopped")
}
