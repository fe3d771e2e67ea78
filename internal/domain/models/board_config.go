package models

// BoardConfig is the client-facing view of the dashboard configuration.
type BoardConfig struct {
	Tickers  []string `json:"tickers"`
	Defaults struct {
		Period   string `json:"period"`
		Interval string `json:"interval"`
	} `json:"defaults"`
	Options struct {
		Periods   []string `json:"periods"`
		Intervals []string `json:"intervals"`
	} `json:"options"`
	UI struct {
		ColumnsPerRow   int     `json:"columns_per_row"`
		ChartHeight     int     `json:"chart_height"`
		TimeOffsetHours float64 `json:"time_offset_hours"`
		TimeLabel       string  `json:"time_label"`
	} `json:"ui"`
	Colors          map[string]string `json:"colors,omitempty"`
	CacheTTLSeconds int               `json:"cache_ttl_seconds"`
}
