package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("summary", []byte(`{"total":5}`))

	data, found := c.Get("summary")
	require.True(t, found)
	assert.Equal(t, []byte(`{"total":5}`), data)
}

func TestCacheMiss(t *testing.T) {
	c := NewCache(time.Minute)

	_, found := c.Get("absent")
	assert.False(t, found)
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Set("summary", []byte("{}"))
	time.Sleep(25 * time.Millisecond)

	_, found := c.Get("summary")
	assert.False(t, found)
}

func TestCacheClear(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	require.Equal(t, 2, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheKeyDerivation(t *testing.T) {
	c := NewCache(time.Minute)

	k1 := c.generateKey("/api/v1/analytics/summary?")
	k2 := c.generateKey("/api/v1/analytics/summary?days=7")
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, c.generateKey("/api/v1/analytics/summary?"))
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("a", []byte("1"))
	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 0, stats["expired_items"])
}
