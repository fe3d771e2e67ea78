package models

import "time"

// PanelStatus classifies a chart panel by how much data it has.
type PanelStatus string

const (
	StatusOK           PanelStatus = "ok"
	StatusInsufficient PanelStatus = "insufficient"
	StatusNoData       PanelStatus = "no_data"
)

// MinChartPoints is the fewest rows a panel needs to draw a line.
const MinChartPoints = 3

// ClassifySeries returns the panel status for s.
func ClassifySeries(s PriceSeries) PanelStatus {
	switch {
	case s.Empty():
		return StatusNoData
	case s.Len() < MinChartPoints:
		return StatusInsufficient
	default:
		return StatusOK
	}
}

// Panel is one ticker's chart-ready data.
type Panel struct {
	Ticker    string        `json:"ticker"`
	Status    PanelStatus   `json:"status"`
	Message   string        `json:"message,omitempty"`
	Color     string        `json:"color,omitempty"`
	TimeLabel string        `json:"time_label,omitempty"`
	Height    int           `json:"height"`
	Points    PriceSeries   `json:"points"`
	Summary   *PanelSummary `json:"summary,omitempty"`
}

// PanelSummary holds headline numbers for a drawn panel. Volatility is
// annualized from the bar interval and is 0 when the interval is unknown.
type PanelSummary struct {
	First      float64 `json:"first"`
	Last       float64 `json:"last"`
	Change     float64 `json:"change"`
	ChangePct  float64 `json:"change_pct"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Volatility float64 `json:"volatility"`
}

// StatusCounts tallies panels by status.
type StatusCounts struct {
	OK           int `json:"ok"`
	Insufficient int `json:"insufficient"`
	NoData       int `json:"no_data"`
}

// Add counts one panel status.
func (c *StatusCounts) Add(s PanelStatus) {
	switch s {
	case StatusOK:
		c.OK++
	case StatusInsufficient:
		c.Insufficient++
	default:
		c.NoData++
	}
}

// DashboardSnapshot is the full set of panels for one period/interval.
type DashboardSnapshot struct {
	Period    string       `json:"period"`
	Interval  string       `json:"interval"`
	UpdatedAt time.Time    `json:"updated_at"`
	Panels    []Panel      `json:"panels"`
	Counts    StatusCounts `json:"counts"`
}
