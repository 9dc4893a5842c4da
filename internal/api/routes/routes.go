package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"vibe-jobs-gateway/internal/api/handlers"
	"vibe-jobs-gateway/internal/api/middleware"
	"vibe-jobs-gateway/internal/backend"
	"vibe-jobs-gateway/internal/cache"
	"vibe-jobs-gateway/internal/config"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, client *backend.Client, detailCache *cache.DetailCache) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestID())
	e.Use(middleware.RateLimit(cfg.Server.RateLimit))
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(client, detailCache))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		jobsGroup := v1.Group("/jobs")
		{
			jobsGroup.GET("", handlers.JobsHandler(cfg, client))
			jobsGroup.GET("/:id/detail", handlers.JobDetailHandler(cfg, client, detailCache))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Vibe Jobs Gateway",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
