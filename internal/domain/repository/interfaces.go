package repository

import (
	"context"

	"PriceBoard/internal/domain/models"
)

// PriceSource is one retrieval pathway for raw price history.
type PriceSource interface {
	Name() string
	Fetch(ctx context.Context, req models.FetchRequest) (*models.Table, error)
}

// SeriesFetcher is what the presentation layer needs from the core.
type SeriesFetcher interface {
	Fetch(ctx context.Context, ticker, period, interval string) models.PriceSeries
	ClearCache()
}

type Metrics interface {
	RecordCacheHit()
	RecordCacheMiss()
	RecordSourceError(source string)
	RecordRows(ticker string, rows int)
	RecordLatency(op string, seconds float64)
}
