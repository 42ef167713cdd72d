package geo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type countingResolver struct {
	calls int
	coord *models.Coordinate
	err   error
}

func (c *countingResolver) Resolve(ctx context.Context, text string) (*models.Coordinate, error) {
	c.calls++
	return c.coord, c.err
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// ==========================
// CachedResolver
// ==========================

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "geocode:soho, nyc", CacheKey("  SoHo, NYC "))
}

func TestCachedResolver_HitAfterMiss(t *testing.T) {
	mr, client := setupMiniredis(t)
	next := &countingResolver{coord: &models.Coordinate{Lat: 40.7233, Lon: -74.003}}
	resolver := NewCachedResolver(next, client, time.Hour, logger.NewNoOpLogger())

	first, err := resolver.Resolve(context.Background(), "soho, NYC")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "SoHo, nyc")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("geocode:soho, nyc"))
	assert.Equal(t, time.Hour, mr.TTL("geocode:soho, nyc"))
}

func TestCachedResolver_DoesNotCacheMisses(t *testing.T) {
	mr, client := setupMiniredis(t)

	tests := []struct {
		name string
		next *countingResolver
	}{
		{name: "unknown location", next: &countingResolver{}},
		{name: "lookup error", next: &countingResolver{err: ErrGeocodeFailed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewCachedResolver(tt.next, client, time.Hour, logger.NewNoOpLogger())

			coord, err := resolver.Resolve(context.Background(), "atlantis")
			assert.Nil(t, coord)
			assert.Equal(t, tt.next.err, err)
			assert.False(t, mr.Exists("geocode:atlantis"))
		})
	}
}

func TestCachedResolver_MalformedEntryIsReplaced(t *testing.T) {
	mr, client := setupMiniredis(t)
	require.NoError(t, mr.Set("geocode:brera, milan", "not json"))

	next := &countingResolver{coord: &models.Coordinate{Lat: 45.4719, Lon: 9.1874}}
	resolver := NewCachedResolver(next, client, time.Minute, logger.NewNoOpLogger())

	coord, err := resolver.Resolve(context.Background(), "brera, Milan")
	require.NoError(t, err)
	assert.Equal(t, 45.4719, coord.Lat)
	assert.Equal(t, 1, next.calls)

	stored, err := mr.Get("geocode:brera, milan")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":45.4719,"lon":9.1874}`, stored)
}

func TestCachedResolver_RedisFailuresBypassCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	coord := &models.Coordinate{Lat: 40.7233, Lon: -74.003}
	data, _ := json.Marshal(coord)

	mock.ExpectGet("geocode:soho, nyc").SetErr(errors.New("connection refused"))
	mock.ExpectSet("geocode:soho, nyc", data, time.Hour).SetErr(errors.New("connection refused"))

	next := &countingResolver{coord: coord}
	resolver := NewCachedResolver(next, client, time.Hour, logger.NewNoOpLogger())

	got, err := resolver.Resolve(context.Background(), "soho, NYC")
	require.NoError(t, err)
	assert.Equal(t, coord, got)
	assert.Equal(t, 1, next.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
