package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig bounds request handling time. Every endpoint here is a proxy
// over one upstream call, so a request outliving the server read timeout is
// already abandoned by the client.
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      timeout,
		ErrorMessage: `{"error":"timeout","message":"Request timed out"}`,
	})
}
