package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"vibe-jobs-gateway/internal/api/routes"
	"vibe-jobs-gateway/internal/backend"
	"vibe-jobs-gateway/internal/cache"
	"vibe-jobs-gateway/internal/config"
	"vibe-jobs-gateway/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := logging.Initialize(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger.Info("Starting Vibe Jobs Gateway")

	// Initialize backend client
	client := backend.NewClient(cfg, logger)

	// Initialize detail cache (nil when Redis is not configured)
	detailCache := cache.NewDetailCache(cfg, logger)
	if detailCache != nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := detailCache.Ping(pingCtx); err != nil {
			logger.Warn("Redis unreachable at startup, detail cache degraded", map[string]any{"error": err.Error()})
		}
		cancel()
		defer detailCache.Close()
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, client, detailCache)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]any{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.WithField("address", address).Info("Server starting")

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]any{"error": err.Error()})
	}
}
