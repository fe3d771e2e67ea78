package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func TestTTLCache_ExpiryScenario(t *testing.T) {
	clk := newFakeClock()
	c, err := NewTTLCache[string](5, WithClock(clk.Now))
	require.NoError(t, err)

	c.Set("BTC|1d|1h", "seriesA")

	clk.Advance(3 * time.Second)
	v, ok := c.Get("BTC|1d|1h")
	assert.True(t, ok)
	assert.Equal(t, "seriesA", v)

	clk.Advance(3 * time.Second)
	_, ok = c.Get("BTC|1d|1h")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry must be evicted by Get")
}

func TestTTLCache_ExpiresExactlyAtTTL(t *testing.T) {
	clk := newFakeClock()
	c, err := NewTTLCache[int](5, WithClock(clk.Now))
	require.NoError(t, err)

	c.Set("k", 1)
	clk.Advance(5 * time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLCache_ZeroTTLAlwaysStale(t *testing.T) {
	c, err := NewTTLCache[int](0)
	require.NoError(t, err)

	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLCache_NegativeTTLRejected(t *testing.T) {
	c, err := NewTTLCache[int](-1)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestTTLCache_MissingKey(t *testing.T) {
	c, err := NewTTLCache[int](10)
	require.NoError(t, err)

	v, ok := c.Get("nope")
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestTTLCache_SetOverwritesAndRestamps(t *testing.T) {
	clk := newFakeClock()
	c, err := NewTTLCache[int](5, WithClock(clk.Now))
	require.NoError(t, err)

	c.Set("k", 1)
	clk.Advance(4 * time.Second)
	c.Set("k", 2)
	clk.Advance(4 * time.Second)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTLCache_Clear(t *testing.T) {
	c, err := NewTTLCache[int](60)
	require.NoError(t, err)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c, err := NewTTLCache[int](60)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := string(rune('a' + (i+j)%8))
				c.Set(key, j)
				c.Get(key)
				if j%50 == 0 {
					c.Clear()
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 8)
}
