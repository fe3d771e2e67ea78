package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"PriceBoard/internal/service/fetcher"
	"PriceBoard/internal/usecase"
	pkgcache "PriceBoard/pkg/cache"
	"PriceBoard/pkg/config"
	xhttp "PriceBoard/pkg/http"
	applogger "PriceBoard/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	fetcher    *fetcher.DataFetcher
	prefetcher *usecase.Prefetcher
	bus        *pkgcache.RedisBus
}

// New creates a new App instance. prefetcher and bus may be nil.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	f *fetcher.DataFetcher,
	p *usecase.Prefetcher,
	bus *pkgcache.RedisBus,
) *App {
	return &App{cfg: cfg, l: l, httpServer: srv, fetcher: f, prefetcher: p, bus: bus}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	a.l.Info("starting",
		applogger.String("env", a.cfg.Environment),
		applogger.Strings("tickers", a.cfg.Tickers),
		applogger.Int("cache_ttl_seconds", a.cfg.CacheTTLSeconds),
		applogger.String("source", a.cfg.Source.Type))

	if a.bus != nil {
		// Clears from other replicas drop only the local cache, so they are
		// not broadcast again.
		if err := a.bus.Subscribe(ctx, a.fetcher.ClearLocalCache); err != nil {
			return err
		}
		a.l.Info("cache clear bus subscribed", applogger.String("addr", a.cfg.Redis.Addr))
	}

	if a.prefetcher != nil {
		a.prefetcher.Start()
		go a.prefetcher.RunOnce()
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	if a.prefetcher != nil {
		a.prefetcher.Stop()
	}

	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.l.Warn("redis close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	a.l.RemoveCollector()
	return nil
}
