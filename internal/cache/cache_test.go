package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUEviction(t *testing.T) {
	c := New[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, 2, c.Len())
}

func TestExpiry(t *testing.T) {
	now := time.Now()
	c := New[int](4, time.Second)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(2 * time.Second)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.CleanExpired()
	assert.Zero(t, c.Len())
}

func TestDeleteAndClear(t *testing.T) {
	c := New[string](4, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestStartCleanupStops(t *testing.T) {
	c := New[string](4, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	c.StartCleanup(ctx, 5*time.Millisecond)
	c.Set("a", "1")

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
}
