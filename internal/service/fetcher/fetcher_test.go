package fetcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"PriceBoard/internal/domain/models"
	"PriceBoard/internal/service/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource implements domrepo.PriceSource for testing.
type MockSource struct {
	mock.Mock
	name string
}

func (m *MockSource) Name() string { return m.name }

func (m *MockSource) Fetch(ctx context.Context, req models.FetchRequest) (*models.Table, error) {
	args := m.Called(req)
	t, _ := args.Get(0).(*models.Table)
	return t, args.Error(1)
}

// blockingSource waits for its context and counts calls.
type blockingSource struct {
	calls atomic.Int32
	delay time.Duration
	table *models.Table
}

func (b *blockingSource) Name() string { return "blocking" }

func (b *blockingSource) Fetch(ctx context.Context, _ models.FetchRequest) (*models.Table, error) {
	b.calls.Add(1)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(b.delay):
		return b.table, nil
	}
}

type panicSource struct{}

func (panicSource) Name() string { return "panicky" }

func (panicSource) Fetch(context.Context, models.FetchRequest) (*models.Table, error) {
	panic("provider blew up")
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func priceTable(closes ...float64) *models.Table {
	dates := make([]any, len(closes))
	values := make([]any, len(closes))
	for i, c := range closes {
		dates[i] = time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)
		values[i] = c
	}
	return &models.Table{Columns: []models.Column{
		{Name: "Date", Values: dates},
		{Name: "Close", Values: values},
	}}
}

var btc = models.FetchRequest{Ticker: "BTC-USD", Period: "1d", Interval: "1h"}

func newCache(t *testing.T, ttl int, opts ...cache.Option) *cache.TTLCache[models.PriceSeries] {
	t.Helper()
	c, err := cache.NewTTLCache[models.PriceSeries](ttl, opts...)
	require.NoError(t, err)
	return c
}

func TestFetch_CacheHitIsIdempotent(t *testing.T) {
	primary := &MockSource{name: "download"}
	secondary := &MockSource{name: "history"}
	primary.On("Fetch", btc).Return(priceTable(1, 2, 3), nil).Once()

	f := New(newCache(t, 60), primary, secondary)

	first := f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	second := f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)

	assert.Len(t, first, 3)
	assert.Equal(t, first, second)
	primary.AssertNumberOfCalls(t, "Fetch", 1)
	secondary.AssertNotCalled(t, "Fetch", mock.Anything)
}

func TestFetch_FallbackOnPrimaryError(t *testing.T) {
	primary := &MockSource{name: "download"}
	secondary := &MockSource{name: "history"}
	primary.On("Fetch", btc).Return(nil, errors.New("connection reset")).Once()
	secondary.On("Fetch", btc).Return(priceTable(5, 6), nil).Once()

	f := New(newCache(t, 60), primary, secondary)
	got := f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)

	require.Len(t, got, 2)
	assert.Equal(t, 6.0, got[1].Close)
	primary.AssertExpectations(t)
	secondary.AssertExpectations(t)
}

func TestFetch_FallbackOnNormalizedEmpty(t *testing.T) {
	primary := &MockSource{name: "download"}
	secondary := &MockSource{name: "history"}
	noClose := &models.Table{Columns: []models.Column{
		{Name: "Date", Values: []any{"2024-01-01"}},
		{Name: "Volume", Values: []any{10.0}},
	}}
	primary.On("Fetch", btc).Return(noClose, nil).Once()
	secondary.On("Fetch", btc).Return(priceTable(7), nil).Once()

	f := New(newCache(t, 60), primary, secondary)
	got := f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)

	require.Len(t, got, 1)
	secondary.AssertExpectations(t)
}

func TestFetch_BothEmptyIsCachedAsEmpty(t *testing.T) {
	primary := &MockSource{name: "download"}
	secondary := &MockSource{name: "history"}
	primary.On("Fetch", btc).Return(&models.Table{}, nil).Once()
	secondary.On("Fetch", btc).Return(nil, errors.New("404")).Once()

	f := New(newCache(t, 60), primary, secondary)

	got := f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	again := f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	assert.Empty(t, again)
	primary.AssertNumberOfCalls(t, "Fetch", 1)
	secondary.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestFetch_ExpiryTriggersRefetch(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	primary := &MockSource{name: "download"}
	primary.On("Fetch", btc).Return(priceTable(1, 2), nil).Twice()

	f := New(newCache(t, 5, cache.WithClock(clk.Now)), primary, nil)

	f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	clk.Advance(3 * time.Second)
	f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	primary.AssertNumberOfCalls(t, "Fetch", 1)

	clk.Advance(3 * time.Second)
	f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	primary.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestFetch_ClearCacheForcesRefetch(t *testing.T) {
	primary := &MockSource{name: "download"}
	primary.On("Fetch", btc).Return(priceTable(1), nil).Twice()

	var hooked atomic.Int32
	f := New(newCache(t, 600), primary, nil, WithClearHook(func() { hooked.Add(1) }))

	f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	f.ClearCache()
	f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)

	primary.AssertNumberOfCalls(t, "Fetch", 2)
	assert.Equal(t, int32(1), hooked.Load())
}

func TestFetch_ClearLocalCacheSkipsHooks(t *testing.T) {
	var hooked atomic.Int32
	f := New(newCache(t, 600), &MockSource{name: "download"}, nil, WithClearHook(func() { hooked.Add(1) }))

	f.ClearLocalCache()
	assert.Zero(t, hooked.Load())
}

func TestFetch_TimeoutFallsBack(t *testing.T) {
	slow := &blockingSource{delay: time.Second, table: priceTable(1)}
	secondary := &MockSource{name: "history"}
	secondary.On("Fetch", btc).Return(priceTable(9, 10), nil).Once()

	f := New(newCache(t, 60), slow, secondary, WithTimeout(20*time.Millisecond))
	got := f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)

	require.Len(t, got, 2)
	assert.Equal(t, 10.0, got[1].Close)
}

func TestFetch_PanicInSourceIsRecovered(t *testing.T) {
	secondary := &MockSource{name: "history"}
	secondary.On("Fetch", btc).Return(priceTable(3), nil).Once()

	f := New(newCache(t, 60), panicSource{}, secondary)

	got := f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	assert.Len(t, got, 1)
}

func TestFetch_NegativeCacheHoldsEmptyResults(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	primary := &MockSource{name: "download"}
	primary.On("Fetch", btc).Return(&models.Table{}, nil).Twice()

	main := newCache(t, 600, cache.WithClock(clk.Now))
	neg := newCache(t, 10, cache.WithClock(clk.Now))
	f := New(main, primary, nil, WithNegativeCache(neg))

	f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	assert.Equal(t, 0, main.Len())
	assert.Equal(t, 1, neg.Len())

	clk.Advance(5 * time.Second)
	f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	primary.AssertNumberOfCalls(t, "Fetch", 1)

	clk.Advance(10 * time.Second)
	f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
	primary.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestFetch_ConcurrentMissesShareOneLoad(t *testing.T) {
	slow := &blockingSource{delay: 50 * time.Millisecond, table: priceTable(1, 2, 3)}
	f := New(newCache(t, 60), slow, nil)

	var wg sync.WaitGroup
	results := make([]models.PriceSeries, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), slow.calls.Load())
	for _, r := range results {
		assert.Len(t, r, 3)
	}
}

func TestFetch_DistinctKeysAreIndependent(t *testing.T) {
	eth := models.FetchRequest{Ticker: "ETH-USD", Period: "1d", Interval: "1h"}
	primary := &MockSource{name: "download"}
	primary.On("Fetch", btc).Return(priceTable(1), nil).Once()
	primary.On("Fetch", eth).Return(priceTable(2, 3), nil).Once()

	f := New(newCache(t, 60), primary, nil)

	assert.Len(t, f.Fetch(context.Background(), btc.Ticker, btc.Period, btc.Interval), 1)
	assert.Len(t, f.Fetch(context.Background(), eth.Ticker, eth.Period, eth.Interval), 2)
	primary.AssertExpectations(t)
}

func TestProviderErrorUnwraps(t *testing.T) {
	base := errors.New("boom")
	err := error(&ProviderError{Source: "download", Ticker: "BTC-USD", Err: base})
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "download BTC-USD: boom", err.Error())
}
