package middleware

import (
	"github.com/labstack/echo/v4"

	"vibe-jobs-gateway/pkg/utils"
)

// RequestID middleware tags every request with a tracking id, exposed both to
// handlers via context and to clients via the X-Request-ID header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)
			return next(c)
		}
	}
}
