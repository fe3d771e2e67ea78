package models

// Requests for dashboard HTTP endpoints. Period and interval are forwarded
// to the provider as-is; only presence is checked here.

type SeriesRequest struct {
	Ticker   string `query:"ticker" json:"ticker" validate:"required,max=32"`
	Period   string `query:"period" json:"period" validate:"omitempty,max=16"`
	Interval string `query:"interval" json:"interval" validate:"omitempty,max=16"`
}

type DashboardRequest struct {
	Period   string `query:"period" json:"period" validate:"omitempty,max=16"`
	Interval string `query:"interval" json:"interval" validate:"omitempty,max=16"`
	Refresh  bool   `query:"refresh" json:"refresh"`
}

// SeriesResponse wraps a single fetched series.
type SeriesResponse struct {
	Ticker   string      `json:"ticker"`
	Period   string      `json:"period"`
	Interval string      `json:"interval"`
	Rows     int         `json:"rows"`
	Points   PriceSeries `json:"points"`
}
