package di

import (
	"context"
	"fmt"
	"time"

	"PriceBoard/internal/domain/models"
	"PriceBoard/internal/domain/repository"
	"PriceBoard/internal/handler/api"
	"PriceBoard/internal/service/cache"
	"PriceBoard/internal/service/fetcher"
	"PriceBoard/internal/service/ratelimit"
	"PriceBoard/internal/service/synthetic"
	"PriceBoard/internal/service/yahoo"
	"PriceBoard/internal/usecase"
	pkgcache "PriceBoard/pkg/cache"
	"PriceBoard/pkg/config"
	xhttp "PriceBoard/pkg/http"
	applogger "PriceBoard/pkg/logger"
	"PriceBoard/pkg/metrics"
	"PriceBoard/pkg/server"
)

// Sources holds the two retrieval pathways in fallback order.
type Sources struct {
	Primary   repository.PriceSource
	Secondary repository.PriceSource
}

// ProvideRedisBus connects the cross-replica clear bus. It returns nil
// when Redis is disabled.
func ProvideRedisBus(cfg *config.Config) (*pkgcache.RedisBus, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	bus, err := pkgcache.NewRedisBus(
		pkgcache.WithRedisAddr(cfg.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis bus: %w", err)
	}
	return bus, nil
}

// ProvideLogger creates the application logger and its diagnostics collector.
func ProvideLogger(cfg *config.Config, bus *pkgcache.RedisBus) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Log.Collector.Enabled {
		cc := &applogger.CollectionConfig{
			TimeInterval:   cfg.Log.Collector.Interval,
			CountThreshold: cfg.Log.Collector.Threshold,
			Topic:          "diagnostics",
		}
		if bus != nil {
			cc.Publisher = bus
		}
		l.AddCollector(cc)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSources builds the retrieval pathways selected by source.type.
func ProvideSources(cfg *config.Config) Sources {
	if cfg.Source.Type == "mock" {
		return Sources{
			Primary:   synthetic.New("synthetic-download", 100),
			Secondary: synthetic.New("synthetic-history", 100),
		}
	}

	ua := cfg.Source.UserAgent
	if ua == "" {
		ua = yahoo.DefaultUserAgent
	}
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.Source.Timeout),
		xhttp.WithProxy(cfg.Source.Proxy),
		xhttp.WithHeader("User-Agent", ua),
	)
	opts := []yahoo.Option{
		yahoo.WithAutoAdjust(cfg.Source.AutoAdjustEnabled()),
		yahoo.WithSymbolMap(cfg.Source.SymbolMap),
	}
	return Sources{
		Primary:   yahoo.NewDownloadSource(client, cfg.Source.DownloadURL, opts...),
		Secondary: yahoo.NewHistorySource(client, cfg.Source.HistoryURL, opts...),
	}
}

// ProvideFetcher creates the cached fetcher. A user-triggered clear is
// broadcast on the bus when one is configured.
func ProvideFetcher(
	cfg *config.Config,
	src Sources,
	m repository.Metrics,
	l *applogger.Logger,
	bus *pkgcache.RedisBus,
) (*fetcher.DataFetcher, error) {
	c, err := cache.NewTTLCache[models.PriceSeries](cfg.CacheTTLSeconds, cache.WithLogger(l))
	if err != nil {
		return nil, fmt.Errorf("series cache: %w", err)
	}
	l.Info("series cache ready", applogger.Duration("ttl", c.TTL()))

	opts := []fetcher.Option{
		fetcher.WithLogger(l.With(applogger.String("component", "fetcher"))),
		fetcher.WithMetrics(m),
		fetcher.WithTimeout(cfg.Source.Timeout),
	}
	if cfg.NegativeCacheTTLSeconds != nil {
		neg, err := cache.NewTTLCache[models.PriceSeries](*cfg.NegativeCacheTTLSeconds, cache.WithLogger(l))
		if err != nil {
			return nil, fmt.Errorf("negative cache: %w", err)
		}
		opts = append(opts, fetcher.WithNegativeCache(neg))
	}
	if bus != nil {
		opts = append(opts, fetcher.WithClearHook(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := bus.PublishClear(ctx); err != nil {
				l.Warn("cache clear broadcast failed", applogger.Error(err))
			}
		}))
	}
	return fetcher.New(c, src.Primary, src.Secondary, opts...), nil
}

// ProvideDashboard creates the dashboard use case.
func ProvideDashboard(cfg *config.Config, f repository.SeriesFetcher, l *applogger.Logger) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(f, usecase.DashboardSettings{
		Tickers:         cfg.Tickers,
		DefaultPeriod:   cfg.Defaults.Period,
		DefaultInterval: cfg.Defaults.Interval,
		Concurrency:     cfg.Prefetch.Concurrency,
		ChartHeight:     cfg.UI.ChartHeight,
		TimeOffsetHours: cfg.UI.TimeOffsetHours,
		TimeLabel:       cfg.UI.TimeLabel,
		Colors:          cfg.Colors,
	}, l.With(applogger.String("component", "dashboard")))
}

// ProvidePrefetcher schedules cache warm-ups. It returns nil when disabled.
func ProvidePrefetcher(cfg *config.Config, d *usecase.DashboardUseCase, l *applogger.Logger) (*usecase.Prefetcher, error) {
	if !cfg.Prefetch.Enabled {
		return nil, nil
	}
	p := usecase.NewPrefetcher(d, 2*time.Minute, l)
	if err := p.Register(cfg.Prefetch.Cron); err != nil {
		return nil, err
	}
	return p, nil
}

// ProvideBoardConfig projects the config onto its client-facing view.
func ProvideBoardConfig(cfg *config.Config) models.BoardConfig {
	var b models.BoardConfig
	b.Tickers = cfg.Tickers
	b.Defaults.Period = cfg.Defaults.Period
	b.Defaults.Interval = cfg.Defaults.Interval
	b.Options.Periods = cfg.PeriodOptions()
	b.Options.Intervals = cfg.IntervalOptions()
	b.UI.ColumnsPerRow = cfg.UI.ColumnsPerRow
	b.UI.ChartHeight = cfg.UI.ChartHeight
	b.UI.TimeOffsetHours = cfg.UI.TimeOffsetHours
	b.UI.TimeLabel = cfg.UI.TimeLabel
	b.Colors = cfg.Colors
	b.CacheTTLSeconds = cfg.CacheTTLSeconds
	return b
}

// ProvideRateLimiter limits user-triggered refreshes per client.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.RefreshBurst, cfg.RateLimit.RefreshPerSec)
}

// ProvideHTTPServer creates the echo server with all API routes.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.DashboardHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	f *fetcher.DataFetcher,
	p *usecase.Prefetcher,
	bus *pkgcache.RedisBus,
) *server.App {
	return server.New(cfg, l, srv, f, p, bus)
}
