package geo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/common/metrics"
	"dining-recommender/internal/models"
)

const cacheKeyPrefix = "geocode:"

// CachedResolver memoises positive lookups of another Resolver in Redis.
// Redis failures are logged and bypassed.
type CachedResolver struct {
	next   Resolver
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedResolver(next Resolver, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedResolver {
	return &CachedResolver{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "geocode-cache"}),
	}
}

func CacheKey(text string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(text))
}

func (c *CachedResolver) Resolve(ctx context.Context, text string) (*models.Coordinate, error) {
	key := CacheKey(text)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var coord models.Coordinate
		if jsonErr := json.Unmarshal([]byte(val), &coord); jsonErr == nil {
			metrics.GeocodeCacheHits.Inc()
			return &coord, nil
		}
		c.logger.Warn("discarding malformed cached coordinate", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("geocode cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	coord, err := c.next.Resolve(ctx, text)
	if err != nil || coord == nil {
		return coord, err
	}

	data, _ := json.Marshal(coord)
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("geocode cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return coord, nil
}
