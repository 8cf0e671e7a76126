package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheSetGet(t *testing.T) {
	assertion := assert.New(t)

	c := NewTTLCache()
	c.Set(KeyLastPrice, 104500.5, time.Minute)

	v, ok := c.GetFloat(KeyLastPrice)
	assertion.True(ok)
	assertion.Equal(104500.5, v)

	_, ok = c.Get("missing")
	assertion.False(ok)
}

func TestTTLCacheExpiry(t *testing.T) {
	assertion := assert.New(t)

	c := NewTTLCache()
	c.Set(KeyLastATR, 25.0, time.Millisecond)

	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(KeyLastATR)
	assertion.False(ok, "expired entries must not be returned")
	assertion.Zero(c.Len(), "expired entries are swept on read")
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	assertion := assert.New(t)

	c := NewTTLCache()
	c.Set(KeyLastGrid, "gen-1", 0)

	time.Sleep(2 * time.Millisecond)

	v, ok := c.Get(KeyLastGrid)
	assertion.True(ok)
	assertion.Equal("gen-1", v)
}

func TestTTLCacheOverwriteAndDelete(t *testing.T) {
	assertion := assert.New(t)

	c := NewTTLCache()
	c.Set(KeyLastPrice, 1.0, time.Minute)
	c.Set(KeyLastPrice, 2.0, time.Minute)

	v, _ := c.GetFloat(KeyLastPrice)
	assertion.Equal(2.0, v)

	c.Delete(KeyLastPrice)
	_, ok := c.Get(KeyLastPrice)
	assertion.False(ok)
}

func TestTTLCacheGetFloatTypeMismatch(t *testing.T) {
	assertion := assert.New(t)

	c := NewTTLCache()
	c.Set(KeyLastGrid, "not a float", time.Minute)

	_, ok := c.GetFloat(KeyLastGrid)
	assertion.False(ok)
}
