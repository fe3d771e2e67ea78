package synthetic

import (
	"context"
	"testing"
	"time"

	"PriceBoard/internal/domain/models"
	"PriceBoard/internal/service/normalize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_GeneratesNormalizableSeries(t *testing.T) {
	src := New("synthetic", 100)
	src.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	tbl, err := src.Fetch(context.Background(), models.FetchRequest{Ticker: "BTC-USD", Period: "1d", Interval: "1h"})
	require.NoError(t, err)

	s := normalize.Normalize(tbl)
	require.Len(t, s, 24)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), s[23].TS)
}

func TestSource_Deterministic(t *testing.T) {
	src := New("synthetic", 100)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return fixed }
	r := models.FetchRequest{Ticker: "ETH-USD", Period: "5d", Interval: "1d"}

	a, err := src.Fetch(context.Background(), r)
	require.NoError(t, err)
	b, err := src.Fetch(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, normalize.Normalize(a), normalize.Normalize(b))
}

func TestSource_UnsupportedCombosAreEmpty(t *testing.T) {
	src := New("synthetic", 100)
	for _, r := range []models.FetchRequest{
		{Ticker: "X", Period: "1mo", Interval: "1m"},
		{Ticker: "X", Period: "1y", Interval: "1h"},
		{Ticker: "X", Period: "bogus", Interval: "1d"},
		{Ticker: "X", Period: "1d", Interval: "1wk"},
	} {
		tbl, err := src.Fetch(context.Background(), r)
		require.NoError(t, err)
		assert.True(t, tbl.Empty(), "%+v", r)
	}
}

func TestParsePeriodAndInterval(t *testing.T) {
	d, ok := ParsePeriod("6mo")
	assert.True(t, ok)
	assert.Equal(t, 180*24*time.Hour, d)

	iv, ok := ParseInterval("15m")
	assert.True(t, ok)
	assert.Equal(t, 15*time.Minute, iv)

	_, ok = ParseInterval("m")
	assert.False(t, ok)
}
