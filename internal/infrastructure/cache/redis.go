package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"greenjobs/internal/config"
)

// NewRedisClient connects to Redis for the embedding cache. Returns nil
// when Redis is not configured or unreachable; callers treat a nil client
// as cache-off and embed directly.
func NewRedisClient(cfg config.RedisConfig, logger *log.Logger) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("cache=redis status=unavailable addr=%s error=%v", cfg.Addr(), err)
		}
		_ = client.Close()
		return nil
	}

	if logger != nil {
		logger.Printf("cache=redis status=connected addr=%s", cfg.Addr())
	}
	return client
}
