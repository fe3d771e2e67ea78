package usecase

import (
	"context"
	"fmt"
	"time"

	applogger "PriceBoard/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Prefetcher periodically warms the cache for the default dashboard.
type Prefetcher struct {
	cron      *cron.Cron
	dashboard *DashboardUseCase
	timeout   time.Duration
	l         *applogger.Logger
}

func NewPrefetcher(d *DashboardUseCase, timeout time.Duration, l *applogger.Logger) *Prefetcher {
	if l == nil {
		l = applogger.Nop()
	}
	return &Prefetcher{cron: cron.New(), dashboard: d, timeout: timeout, l: l}
}

// Register schedules the warm-up on spec (standard cron or @every).
func (p *Prefetcher) Register(spec string) error {
	if _, err := p.cron.AddFunc(spec, p.RunOnce); err != nil {
		return fmt.Errorf("register prefetch %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (p *Prefetcher) Start() {
	p.cron.Start()
	p.l.Info("prefetch scheduler started", applogger.Int("jobs", len(p.cron.Entries())))
}

// Stop stops the scheduler and waits for a running warm-up to finish.
func (p *Prefetcher) Stop() {
	<-p.cron.Stop().Done()
	p.l.Info("prefetch scheduler stopped")
}

// RunOnce fetches every configured ticker at the default period/interval.
func (p *Prefetcher) RunOnce() {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	start := time.Now()
	snap, err := p.dashboard.Build(ctx, "", "", false)
	if err != nil {
		p.l.Warn("prefetch aborted", applogger.Error(err))
		return
	}
	p.l.Info("prefetch done",
		applogger.Int("panels", len(snap.Panels)),
		applogger.Int("no_data", snap.Counts.NoData),
		applogger.Float64("seconds", time.Since(start).Seconds()))
}
