package cache

import (
	"fmt"
	"sync"
	"time"

	applogger "PriceBoard/pkg/logger"
)

type entry[V any] struct {
	v        V
	storedAt time.Time
}

// TTLCache is an in-memory key/value store whose entries go stale ttl after
// they were set. Stale entries are dropped by the Get that finds them; there
// is no background sweeper.
//
// All methods are safe for concurrent use. A Set that races a Clear may
// leave its entry in place after the Clear returns.
type TTLCache[V any] struct {
	mu  sync.Mutex
	m   map[string]entry[V]
	ttl time.Duration
	now Clock
	l   *applogger.Logger
}

// Option configures a TTLCache.
type Option func(*options)

type options struct {
	now Clock
	l   *applogger.Logger
}

// WithClock overrides time.Now.
func WithClock(now Clock) Option {
	return func(o *options) { o.now = now }
}

// WithLogger attaches a logger for hit/expiry/clear events.
func WithLogger(l *applogger.Logger) Option {
	return func(o *options) { o.l = l }
}

// NewTTLCache builds a cache whose entries live ttlSeconds. Zero means every
// entry is stale on its next read.
func NewTTLCache[V any](ttlSeconds int, opts ...Option) (*TTLCache[V], error) {
	if ttlSeconds < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTTL, ttlSeconds)
	}
	o := &options{now: time.Now, l: applogger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return &TTLCache[V]{
		m:   make(map[string]entry[V]),
		ttl: time.Duration(ttlSeconds) * time.Second,
		now: o.now,
		l:   o.l,
	}, nil
}

// TTL returns the fixed entry lifetime.
func (c *TTLCache[V]) TTL() time.Duration { return c.ttl }

// Get returns the value for key if it is still fresh.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.m, key)
		c.l.Debug("cache expired", applogger.String("key", key))
		return zero, false
	}
	c.l.Debug("cache hit", applogger.String("key", key))
	return e.v, true
}

// Set stores v under key, overwriting any previous entry.
func (c *TTLCache[V]) Set(key string, v V) {
	c.mu.Lock()
	c.m[key] = entry[V]{v: v, storedAt: c.now()}
	c.mu.Unlock()
	c.l.Debug("cache set", applogger.String("key", key))
}

// Clear drops every entry.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	n := len(c.m)
	c.m = make(map[string]entry[V])
	c.mu.Unlock()
	c.l.Info("cache cleared", applogger.Int("entries", n))
}

// Len returns the number of stored entries, stale ones included.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
