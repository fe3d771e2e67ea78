package models

import (
	"strings"
	"time"
)

// Point is one (timestamp, close) observation. TS is always in time.UTC.
type Point struct {
	TS    time.Time `json:"ts"`
	Close float64   `json:"close"`
}

// PriceSeries is the canonical close-price series: strictly increasing
// timestamps, no duplicates, no missing values. An empty series means
// "no data available" and is not an error.
type PriceSeries []Point

// Len returns the number of rows.
func (s PriceSeries) Len() int { return len(s) }

// Empty reports whether the series has no rows.
func (s PriceSeries) Empty() bool { return len(s) == 0 }

// Last returns the most recent point.
func (s PriceSeries) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Shift returns a copy with every timestamp moved by d.
func (s PriceSeries) Shift(d time.Duration) PriceSeries {
	out := make(PriceSeries, len(s))
	for i, p := range s {
		out[i] = Point{TS: p.TS.Add(d), Close: p.Close}
	}
	return out
}

// KeySeparator joins the FetchRequest fields into a cache key.
const KeySeparator = "|"

// FetchRequest identifies one series to retrieve.
type FetchRequest struct {
	Ticker   string `json:"ticker"`
	Period   string `json:"period"`
	Interval string `json:"interval"`
}

// Key renders the request as "ticker|period|interval".
func (r FetchRequest) Key() string {
	return strings.Join([]string{r.Ticker, r.Period, r.Interval}, KeySeparator)
}
