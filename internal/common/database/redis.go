package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"dining-recommender/internal/common/config"
)

// RedisClient backs the geocode cache.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds the client without dialing. Cache lookups sit on the
// request path, so dial and I/O timeouts are kept short.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{Client: redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		MaxRetries:   1,
		PoolSize:     10,
	})}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	return verify(ctx, "redis", func(ctx context.Context) error {
		return c.Client.Ping(ctx).Err()
	})
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
