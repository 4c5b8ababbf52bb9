package dataflows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Hour, true)
	params := map[string]string{"function": "OVERVIEW", "symbol": "NVDA"}

	cache.Set("alphavantage", "OVERVIEW", params, map[string]string{"Name": "NVIDIA Corporation"})

	var got map[string]string
	require.True(t, cache.Get("alphavantage", "OVERVIEW", params, &got))
	assert.Equal(t, "NVIDIA Corporation", got["Name"])
}

func TestCacheMissOnDifferentParams(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Hour, true)

	cache.Set("alphavantage", "OVERVIEW", map[string]string{"symbol": "NVDA"}, map[string]string{"Name": "a"})

	var got map[string]string
	assert.False(t, cache.Get("alphavantage", "OVERVIEW", map[string]string{"symbol": "AMD"}, &got))
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Millisecond, true)
	params := map[string]string{"symbol": "NVDA"}

	cache.Set("alphavantage", "OVERVIEW", params, map[string]string{"Name": "a"})
	time.Sleep(5 * time.Millisecond)

	var got map[string]string
	assert.False(t, cache.Get("alphavantage", "OVERVIEW", params, &got))
}

func TestCacheDisabled(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Hour, false)
	params := map[string]string{"symbol": "NVDA"}

	cache.Set("alphavantage", "OVERVIEW", params, map[string]string{"Name": "a"})

	var got map[string]string
	assert.False(t, cache.Get("alphavantage", "OVERVIEW", params, &got))
}
