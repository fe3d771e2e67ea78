// Package yahoo implements the two Yahoo Finance retrieval pathways.
//
// DownloadSource mimics a batch download: OHLCV columns keyed by
// (field, ticker) with the bar times as a datetime index.
// HistorySource mimics a per-ticker history call: a Datetime or Date column
// in exchange local time followed by plain OHLCV columns.
package yahoo

import (
	"context"
	"time"

	"PriceBoard/internal/domain/models"
	domrepo "PriceBoard/internal/domain/repository"
	xhttp "PriceBoard/pkg/http"
)

const (
	DefaultDownloadURL = "https://query2.finance.yahoo.com"
	DefaultHistoryURL  = "https://query1.finance.yahoo.com"
	DefaultUserAgent   = "Mozilla/5.0"
)

// Option configures a source.
type Option func(*settings)

type settings struct {
	adjust    bool
	symbolMap map[string]string
}

// WithAutoAdjust replaces Close with the adjusted close when available.
func WithAutoAdjust(on bool) Option {
	return func(s *settings) { s.adjust = on }
}

// WithSymbolMap maps dashboard tickers to Yahoo symbols (e.g. SPX → ^GSPC).
func WithSymbolMap(m map[string]string) Option {
	return func(s *settings) { s.symbolMap = m }
}

func newSettings(opts []Option) *settings {
	s := &settings{adjust: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DownloadSource is the primary, batch-shaped pathway.
type DownloadSource struct {
	api    *chartAPI
	adjust bool
}

// NewDownloadSource builds the primary pathway against baseURL.
func NewDownloadSource(client *xhttp.Client, baseURL string, opts ...Option) *DownloadSource {
	s := newSettings(opts)
	return &DownloadSource{
		api:    &chartAPI{client: client, baseURL: baseURL, symbolMap: s.symbolMap},
		adjust: s.adjust,
	}
}

func (d *DownloadSource) Name() string { return "download" }

func (d *DownloadSource) Fetch(ctx context.Context, req models.FetchRequest) (*models.Table, error) {
	res, err := d.api.fetch(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &models.Table{}, nil
	}

	n := len(res.Timestamp)
	index := make([]any, n)
	for i, ts := range res.Timestamp {
		index[i] = ts
	}

	t := &models.Table{Index: index, IndexIsTime: true}
	for _, f := range res.fields(d.adjust) {
		t.Columns = append(t.Columns, models.Column{
			Levels: []string{f.name, req.Ticker},
			Values: cells(f.values, n),
		})
	}
	return t, nil
}

// HistorySource is the secondary, per-ticker pathway.
type HistorySource struct {
	api    *chartAPI
	adjust bool
}

// NewHistorySource builds the fallback pathway against baseURL.
func NewHistorySource(client *xhttp.Client, baseURL string, opts ...Option) *HistorySource {
	s := newSettings(opts)
	return &HistorySource{
		api:    &chartAPI{client: client, baseURL: baseURL, symbolMap: s.symbolMap},
		adjust: s.adjust,
	}
}

func (h *HistorySource) Name() string { return "history" }

func (h *HistorySource) Fetch(ctx context.Context, req models.FetchRequest) (*models.Table, error) {
	res, err := h.api.fetch(ctx, req, map[string][]string{"includeAdjustedClose": {"true"}})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &models.Table{}, nil
	}

	n := len(res.Timestamp)
	loc := res.location()
	stamps := make([]any, n)
	for i, ts := range res.Timestamp {
		stamps[i] = time.Unix(ts, 0).In(loc)
	}

	timeCol := "Date"
	if isIntraday(req.Interval) {
		timeCol = "Datetime"
	}
	t := &models.Table{Columns: []models.Column{{Name: timeCol, Values: stamps}}}
	for _, f := range res.fields(h.adjust) {
		t.Columns = append(t.Columns, models.Column{Name: f.name, Values: cells(f.values, n)})
	}
	return t, nil
}

var (
	_ domrepo.PriceSource = (*DownloadSource)(nil)
	_ domrepo.PriceSource = (*HistorySource)(nil)
)
