package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clipforge/clipforge/internal/api"
	"github.com/clipforge/clipforge/internal/artifact"
	"github.com/clipforge/clipforge/internal/clip"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/history"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/source"
	"github.com/clipforge/clipforge/internal/transcode"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	// Optional .env for local development; real deployments set env directly.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("failed to load .env: %v", err)
		}
	}

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting clipforge", "version", config.Version, "data_dir", cfg.DataDir())

	database, err := history.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := history.NewRepository(database.Conn())

	artifacts, err := artifact.NewManager(cfg.ScratchDir(), logging.WithComponent(logger, "artifact"))
	if err != nil {
		return fmt.Errorf("failed to initialize artifact manager: %w", err)
	}

	transcoder, err := transcode.NewRunner(transcode.Config{
		FFmpegPath: cfg.FFmpegPath(),
		Logger:     logging.WithComponent(logger, "transcode"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize transcoder: %w", err)
	}

	resolver := source.NewYouTubeResolver(logging.WithComponent(logger, "source"))

	clipSvc := clip.NewService(resolver, transcoder, artifacts, repo, logging.WithComponent(logger, "clip"))

	apiServer := api.NewServer(api.ServerConfig{
		Port:           cfg.Port(),
		ClipService:    clipSvc,
		Repository:     repo,
		Logger:         logger,
		StartTime:      startTime,
		RequestTimeout: cfg.RequestTimeout(),
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
