package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v", time.Minute)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("k", 42, time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	current = current.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok, "expired entries must not be returned")
	assert.Equal(t, 0, c.Len(), "expired entries are dropped on read")
}

func TestMemoryZeroTTLUsesDefault(t *testing.T) {
	c := NewMemory()
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("k", "v", 0)

	current = current.Add(DefaultTTL - time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
}
