package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"vibe-jobs-gateway/pkg/models"
)

// clientLimiter tracks one client's token bucket.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a per-client-IP token bucket. requestsPerMinute sets the
// refill rate; bursts up to one tenth of the per-minute allowance pass. Idle
// client entries are dropped after a few minutes to bound memory.
func RateLimit(requestsPerMinute int) echo.MiddlewareFunc {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 120
	}
	rps := rate.Limit(float64(requestsPerMinute) / 60.0)
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	var mu sync.Mutex
	limiters := make(map[string]*clientLimiter)
	lastCleanup := time.Now()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			mu.Lock()
			entry, ok := limiters[ip]
			if !ok {
				entry = &clientLimiter{limiter: rate.NewLimiter(rps, burst)}
				limiters[ip] = entry
			}
			entry.lastSeen = time.Now()

			if time.Since(lastCleanup) > 5*time.Minute {
				for key, stale := range limiters {
					if time.Since(stale.lastSeen) > 10*time.Minute {
						delete(limiters, key)
					}
				}
				lastCleanup = time.Now()
			}
			allowed := entry.limiter.Allow()
			mu.Unlock()

			if !allowed {
				requestID, _ := c.Get("request_id").(string)
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:     "rate_limited",
					Message:   "Too many requests",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			return next(c)
		}
	}
}
