package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"vibe-jobs-gateway/internal/backend"
	"vibe-jobs-gateway/internal/cache"
	"vibe-jobs-gateway/internal/logging"
	"vibe-jobs-gateway/pkg/models"
	"vibe-jobs-gateway/pkg/utils"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logger := logging.GetGlobalLogger()
	logger.Debug("Health check requested", map[string]any{"request_id": requestIDFrom(c)})

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// ReadinessHandler handles readiness probe requests, reporting backend
// reachability and cache connectivity when a detail cache is configured.
func ReadinessHandler(client *backend.Client, detailCache *cache.DetailCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "ok"}
		status := "ready"
		code := http.StatusOK

		if client != nil {
			if err := client.Ping(c.Request().Context()); err != nil {
				checks["backend"] = "unreachable"
				status = "degraded"
			} else {
				checks["backend"] = "ok"
			}
		}

		if detailCache != nil {
			if err := detailCache.Ping(c.Request().Context()); err != nil {
				checks["cache"] = "unreachable"
				status = "degraded"
			} else {
				checks["cache"] = "ok"
			}
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status
func StatusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "operational",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api":          "operational",
			"uptime_human": utils.FormatDuration(time.Since(startTime)),
		},
	})
}
