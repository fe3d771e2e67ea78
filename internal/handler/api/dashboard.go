package api

import (
	"time"

	"PriceBoard/internal/domain/models"
	domrepo "PriceBoard/internal/domain/repository"
	"PriceBoard/internal/service/metrics"
	"PriceBoard/internal/service/ratelimit"
	"PriceBoard/internal/usecase"
	xhttp "PriceBoard/pkg/http"
	xlogger "PriceBoard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves series, dashboards and cache control over echo.
type DashboardHandler struct {
	logger    *xlogger.Logger
	fetcher   domrepo.SeriesFetcher
	dashboard *usecase.DashboardUseCase
	board     models.BoardConfig
	rl        *ratelimit.Limiter
}

func NewDashboardHandler(
	logger *xlogger.Logger,
	fetcher domrepo.SeriesFetcher,
	dashboard *usecase.DashboardUseCase,
	board models.BoardConfig,
	rl *ratelimit.Limiter,
) *DashboardHandler {
	metrics.Register()
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &DashboardHandler{logger: logger, fetcher: fetcher, dashboard: dashboard, board: board, rl: rl}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/series", h.Series)
	g.GET("/dashboard", h.Dashboard)
	g.POST("/refresh", h.Refresh)
	g.GET("/config", h.Config)
	g.GET("/diagnostics", h.Diagnostics)
	e.GET("/ws/dashboard", h.Stream)
}

func observe(endpoint string, start time.Time) {
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *DashboardHandler) Series(c echo.Context) error {
	defer observe("series", time.Now())
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.APIErrors.WithLabelValues("series").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Period == "" {
		req.Period = h.board.Defaults.Period
	}
	if req.Interval == "" {
		req.Interval = h.board.Defaults.Interval
	}

	s := h.fetcher.Fetch(c.Request().Context(), req.Ticker, req.Period, req.Interval)
	return xhttp.SuccessResponse(c, &models.SeriesResponse{
		Ticker:   req.Ticker,
		Period:   req.Period,
		Interval: req.Interval,
		Rows:     s.Len(),
		Points:   s,
	})
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	defer observe("dashboard", time.Now())
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.APIErrors.WithLabelValues("dashboard").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Refresh && !h.allowRefresh(c.RealIP()) {
		metrics.APIErrors.WithLabelValues("dashboard").Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("refresh rate limited"))
	}

	snap, err := h.dashboard.Build(c.Request().Context(), req.Period, req.Interval, req.Refresh)
	if err != nil {
		metrics.APIErrors.WithLabelValues("dashboard").Inc()
		h.logger.Error("dashboard usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("dashboard build interrupted").WithError(err))
	}
	recordPanels(snap.Counts)
	return xhttp.SuccessResponse(c, snap)
}

func (h *DashboardHandler) Refresh(c echo.Context) error {
	defer observe("refresh", time.Now())
	if !h.allowRefresh(c.RealIP()) {
		metrics.APIErrors.WithLabelValues("refresh").Inc()
		h.logger.Warn("refresh rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("refresh rate limited"))
	}
	h.fetcher.ClearCache()
	h.logger.Info("cache cleared", xlogger.String("remote", c.RealIP()))
	return xhttp.AcceptedResponse(c, map[string]bool{"cleared": true})
}

func (h *DashboardHandler) Config(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, h.board)
}

func (h *DashboardHandler) Diagnostics(c echo.Context) error {
	entries := []xlogger.AggregatedLogEntry{}
	if col := h.logger.Collector(); col != nil {
		entries = col.Snapshot()
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"entries": entries, "count": len(entries)})
}

func (h *DashboardHandler) allowRefresh(remote string) bool {
	if h.rl == nil {
		return true
	}
	return h.rl.Allow(remote + ":refresh")
}

func recordPanels(c models.StatusCounts) {
	metrics.DashboardPanels.WithLabelValues(string(models.StatusOK)).Set(float64(c.OK))
	metrics.DashboardPanels.WithLabelValues(string(models.StatusInsufficient)).Set(float64(c.Insufficient))
	metrics.DashboardPanels.WithLabelValues(string(models.StatusNoData)).Set(float64(c.NoData))
}
