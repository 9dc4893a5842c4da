package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"vibe-jobs-gateway/internal/config"
	"vibe-jobs-gateway/internal/logging"
	"vibe-jobs-gateway/pkg/models"
)

const detailKeyPrefix = "jobs:detail:"

// DetailCache stores normalized job details in Redis with a TTL, so repeated
// detail views do not round-trip to the backend. A nil *DetailCache is a
// valid no-op cache: every Get misses and Set does nothing.
type DetailCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewDetailCache creates a detail cache from config. Returns nil (cache
// disabled) when no Redis URL is configured.
func NewDetailCache(cfg *config.Config, logger logging.Logger) *DetailCache {
	if cfg.Redis.URL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Warn("Invalid Redis URL, detail cache disabled", map[string]any{"error": err.Error()})
		return nil
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	return &DetailCache{
		client: redis.NewClient(opts),
		ttl:    cfg.Redis.DetailTTL,
		logger: logger,
	}
}

// Get returns the cached detail for id, or ok=false on a miss or any Redis
// error. Cache failures must never surface to the request path.
func (c *DetailCache) Get(ctx context.Context, id string) (*models.JobDetail, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, detailKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Detail cache read failed", map[string]any{"job_id": id, "error": err.Error()})
		}
		return nil, false
	}
	var detail models.JobDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		c.logger.Warn("Detail cache entry corrupt", map[string]any{"job_id": id, "error": err.Error()})
		return nil, false
	}
	return &detail, true
}

// Set stores the detail for id, best effort.
func (c *DetailCache) Set(ctx context.Context, id string, detail *models.JobDetail) {
	if c == nil || detail == nil {
		return
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, detailKeyPrefix+id, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Detail cache write failed", map[string]any{"job_id": id, "error": err.Error()})
	}
}

// Ping tests the Redis connection.
func (c *DetailCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *DetailCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
