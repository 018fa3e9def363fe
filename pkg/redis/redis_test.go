package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dahai/pkg/config"
)

func disabledCache(t *testing.T) *Cache {
	t.Helper()
	client, err := New(context.Background(), &config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	return NewCache(client, "dahai")
}

func TestCache_DisabledIsNoop(t *testing.T) {
	cache := disabledCache(t)
	ctx := context.Background()

	var got string
	found, err := cache.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "key", "v", TTLShort))
	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestCache_GetOrSetFallsThrough(t *testing.T) {
	cache := disabledCache(t)

	type report struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}

	var got report
	calls := 0
	err := cache.GetOrSet(context.Background(), ConfluenceLatestKey(), &got, TTLDaily, func() (interface{}, error) {
		calls++
		return report{Date: "20240105", Count: 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, report{Date: "20240105", Count: 3}, got)
}

func TestCache_GetOrSetPropagatesError(t *testing.T) {
	cache := disabledCache(t)
	boom := errors.New("report missing")

	var got map[string]interface{}
	err := cache.GetOrSet(context.Background(), "x", &got, TTLShort, func() (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"confluence by date", ConfluenceKey("20240105"), "confluence:20240105"},
		{"confluence latest", ConfluenceLatestKey(), "confluence:latest"},
		{"ledger state", LedgerStateKey(), "ledger:state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestRateLimiter_LocalFallback(t *testing.T) {
	client, err := New(context.Background(), &config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	limiter := NewRateLimiter(client, "dahai")

	cfg := RateLimitConfig{Key: "api:test", Limit: 3, Window: time.Hour}
	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(context.Background(), cfg)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	other, _, err := limiter.Allow(context.Background(), RateLimitConfig{Key: "api:other", Limit: 3, Window: time.Hour})
	require.NoError(t, err)
	assert.True(t, other)
}

func TestRateLimiter_ZeroLimitAllows(t *testing.T) {
	limiter := NewRateLimiter(nil, "dahai")
	allowed, _, err := limiter.Allow(context.Background(), RateLimitConfig{Key: "k"})
	require.NoError(t, err)
	assert.True(t, allowed)
}
