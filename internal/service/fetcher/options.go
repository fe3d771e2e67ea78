package fetcher

import (
	"time"

	"PriceBoard/internal/domain/models"
	domrepo "PriceBoard/internal/domain/repository"
	"PriceBoard/internal/service/cache"
	applogger "PriceBoard/pkg/logger"
)

// DefaultTimeout bounds a single pathway call.
const DefaultTimeout = 10 * time.Second

// Option configures a DataFetcher.
type Option func(*DataFetcher)

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(f *DataFetcher) { f.l = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m domrepo.Metrics) Option {
	return func(f *DataFetcher) { f.metrics = m }
}

// WithTimeout sets the per-pathway timeout. Non-positive disables it.
func WithTimeout(d time.Duration) Option {
	return func(f *DataFetcher) { f.timeout = d }
}

// WithNegativeCache stores empty results in c instead of the main cache,
// usually so they can expire sooner.
func WithNegativeCache(c *cache.TTLCache[models.PriceSeries]) Option {
	return func(f *DataFetcher) { f.negative = c }
}

// WithClearHook registers fn to run after every ClearCache.
func WithClearHook(fn func()) Option {
	return func(f *DataFetcher) { f.onClear = append(f.onClear, fn) }
}

type noopMetrics struct{}

func (noopMetrics) RecordCacheHit()               {}
func (noopMetrics) RecordCacheMiss()              {}
func (noopMetrics) RecordSourceError(string)      {}
func (noopMetrics) RecordRows(string, int)        {}
func (noopMetrics) RecordLatency(string, float64) {}
