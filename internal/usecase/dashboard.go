package usecase

import (
	"context"
	"time"

	"PriceBoard/internal/domain/models"
	domrepo "PriceBoard/internal/domain/repository"
	"PriceBoard/internal/service/features"
	applogger "PriceBoard/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	msgNoData       = "No data"
	msgInsufficient = "Insufficient data"
)

// DashboardSettings are the presentation knobs applied to every panel.
type DashboardSettings struct {
	Tickers         []string
	DefaultPeriod   string
	DefaultInterval string
	Concurrency     int
	ChartHeight     int
	TimeOffsetHours float64
	TimeLabel       string
	Colors          map[string]string
}

// DashboardUseCase builds chart panels for every configured ticker.
type DashboardUseCase struct {
	fetcher  domrepo.SeriesFetcher
	settings DashboardSettings
	l        *applogger.Logger
	now      func() time.Time
}

func NewDashboardUseCase(f domrepo.SeriesFetcher, s DashboardSettings, l *applogger.Logger) *DashboardUseCase {
	if s.Concurrency <= 0 {
		s.Concurrency = 1
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &DashboardUseCase{fetcher: f, settings: s, l: l, now: time.Now}
}

// Build fetches every ticker and returns the resulting snapshot. Empty
// period or interval fall back to the configured defaults. When refresh
// is set the fetcher cache is cleared first.
func (uc *DashboardUseCase) Build(ctx context.Context, period, interval string, refresh bool) (*models.DashboardSnapshot, error) {
	if period == "" {
		period = uc.settings.DefaultPeriod
	}
	if interval == "" {
		interval = uc.settings.DefaultInterval
	}
	if refresh {
		uc.l.Info("dashboard refresh requested")
		uc.fetcher.ClearCache()
	}

	panels := make([]models.Panel, len(uc.settings.Tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.settings.Concurrency)
	for i, ticker := range uc.settings.Tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			panels[i] = uc.panel(ticker, interval, uc.fetcher.Fetch(gctx, ticker, period, interval))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &models.DashboardSnapshot{
		Period:    period,
		Interval:  interval,
		UpdatedAt: uc.now().UTC(),
		Panels:    panels,
	}
	for _, p := range panels {
		snap.Counts.Add(p.Status)
	}
	uc.l.Info("dashboard built",
		applogger.String("period", period),
		applogger.String("interval", interval),
		applogger.Bool("refresh", refresh),
		applogger.Int("ok", snap.Counts.OK),
		applogger.Int("insufficient", snap.Counts.Insufficient),
		applogger.Int("no_data", snap.Counts.NoData))
	return snap, nil
}

func (uc *DashboardUseCase) panel(ticker, interval string, s models.PriceSeries) models.Panel {
	p := models.Panel{
		Ticker:    ticker,
		Status:    models.ClassifySeries(s),
		Color:     uc.settings.Colors[ticker],
		TimeLabel: uc.settings.TimeLabel,
		Height:    uc.settings.ChartHeight,
		Points:    models.PriceSeries{},
	}
	switch p.Status {
	case models.StatusNoData:
		p.Message = msgNoData
	case models.StatusInsufficient:
		p.Message = msgInsufficient
	default:
		offset := time.Duration(uc.settings.TimeOffsetHours * float64(time.Hour))
		p.Points = s.Shift(offset)
		p.Summary = features.Summarize(s, interval)
	}
	return p
}
