// Package fetcher serves price series from a TTL cache, falling back from
// the primary to the secondary provider pathway on failure or no data.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"PriceBoard/internal/domain/models"
	domrepo "PriceBoard/internal/domain/repository"
	"PriceBoard/internal/service/cache"
	"PriceBoard/internal/service/normalize"
	applogger "PriceBoard/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// DataFetcher owns one cache and the two retrieval pathways. It is safe
// for concurrent use; concurrent misses on the same key share one load.
type DataFetcher struct {
	cache     *cache.TTLCache[models.PriceSeries]
	negative  *cache.TTLCache[models.PriceSeries]
	primary   domrepo.PriceSource
	secondary domrepo.PriceSource
	timeout   time.Duration
	l         *applogger.Logger
	metrics   domrepo.Metrics
	onClear   []func()
	group     singleflight.Group
}

// New builds a fetcher. secondary may be nil.
func New(c *cache.TTLCache[models.PriceSeries], primary, secondary domrepo.PriceSource, opts ...Option) *DataFetcher {
	f := &DataFetcher{
		cache:     c,
		primary:   primary,
		secondary: secondary,
		timeout:   DefaultTimeout,
		l:         applogger.Nop(),
		metrics:   noopMetrics{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// attempt is the outcome of one pathway: a series or the reason there is none.
type attempt struct {
	source string
	series models.PriceSeries
	err    error
}

func (a attempt) failed() bool { return a.err != nil || a.series.Empty() }

// Fetch returns the close series for ticker. It never fails: provider
// errors are logged and an empty series is returned instead.
func (f *DataFetcher) Fetch(ctx context.Context, ticker, period, interval string) models.PriceSeries {
	req := models.FetchRequest{Ticker: ticker, Period: period, Interval: interval}
	key := req.Key()

	if s, ok := f.lookup(key); ok {
		f.metrics.RecordCacheHit()
		f.l.Info("fetch cache hit", applogger.String("key", key), applogger.Int("rows", s.Len()))
		return s
	}
	f.metrics.RecordCacheMiss()

	// The shared load outlives any single caller; pathway timeouts bound it.
	loadCtx := context.WithoutCancel(ctx)
	v, _, _ := f.group.Do(key, func() (interface{}, error) {
		if s, ok := f.lookup(key); ok {
			return s, nil
		}
		return f.load(loadCtx, req), nil
	})
	return v.(models.PriceSeries)
}

// ClearCache drops every cached series and notifies clear hooks.
func (f *DataFetcher) ClearCache() {
	f.ClearLocalCache()
	for _, fn := range f.onClear {
		fn()
	}
}

// ClearLocalCache drops every cached series without notifying hooks.
func (f *DataFetcher) ClearLocalCache() {
	f.cache.Clear()
	if f.negative != nil {
		f.negative.Clear()
	}
}

func (f *DataFetcher) lookup(key string) (models.PriceSeries, bool) {
	if s, ok := f.cache.Get(key); ok {
		return s, true
	}
	if f.negative != nil {
		return f.negative.Get(key)
	}
	return nil, false
}

func (f *DataFetcher) load(ctx context.Context, req models.FetchRequest) models.PriceSeries {
	key := req.Key()
	start := time.Now()
	f.l.Info("fetch downloading", applogger.String("key", key))

	res := f.try(ctx, f.primary, req)
	if res.failed() && f.secondary != nil {
		f.logFailure(req, res)
		res = f.try(ctx, f.secondary, req)
		if !res.failed() {
			f.l.Info("fetch fallback ok",
				applogger.String("key", key),
				applogger.String("source", res.source),
				applogger.Int("rows", res.series.Len()))
		}
	}
	if res.failed() {
		f.logFailure(req, res)
	}

	series := res.series
	if res.err != nil || series == nil {
		series = models.PriceSeries{}
	}

	if series.Empty() {
		f.l.Warn("fetch no data", applogger.String("key", key))
		if f.negative != nil {
			f.negative.Set(key, series)
		} else {
			f.cache.Set(key, series)
		}
	} else {
		f.l.Info("fetch rows", applogger.String("key", key), applogger.Int("rows", series.Len()))
		f.cache.Set(key, series)
	}

	f.metrics.RecordRows(req.Ticker, series.Len())
	f.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	return series
}

func (f *DataFetcher) logFailure(req models.FetchRequest, a attempt) {
	if a.err == nil {
		f.l.Debug("fetch pathway empty",
			applogger.String("key", req.Key()),
			applogger.String("source", a.source))
		return
	}
	f.metrics.RecordSourceError(a.source)
	f.l.Error("fetch pathway failed",
		applogger.String("key", req.Key()),
		applogger.String("source", a.source),
		applogger.Error(a.err))
}

// try runs one pathway under the configured timeout and normalizes the
// result. Panics inside a source count as a failed attempt.
func (f *DataFetcher) try(ctx context.Context, src domrepo.PriceSource, req models.FetchRequest) (out attempt) {
	out.source = src.Name()
	defer func() {
		if r := recover(); r != nil {
			out = attempt{source: src.Name(), err: &ProviderError{
				Source: src.Name(), Ticker: req.Ticker, Err: fmt.Errorf("panic: %v", r),
			}}
		}
	}()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	raw, err := src.Fetch(ctx, req)
	if err != nil {
		out.err = &ProviderError{Source: src.Name(), Ticker: req.Ticker, Err: err}
		return out
	}

	s, nerr := normalize.Table(raw)
	if nerr != nil {
		f.l.Debug("fetch normalize empty",
			applogger.String("key", req.Key()),
			applogger.String("source", src.Name()),
			applogger.Error(nerr))
	}
	out.series = s
	return out
}

var _ domrepo.SeriesFetcher = (*DataFetcher)(nil)
