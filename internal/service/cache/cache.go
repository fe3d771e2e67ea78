package cache

import (
	"errors"
	"time"
)

// ErrInvalidTTL is returned when a cache is built with a negative TTL.
var ErrInvalidTTL = errors.New("cache: ttl must be a non-negative number of seconds")

// Clock returns the current time. Swappable in tests.
type Clock func() time.Time
