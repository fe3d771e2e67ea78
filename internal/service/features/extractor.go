// Package features derives headline numbers for a close series.
package features

import (
	"math"

	"PriceBoard/internal/domain/models"
)

// ComputeLogReturns computes log returns r_t = ln(C_t / C_{t-1}).
// It returns a slice of length len(s)-1, or nil if insufficient data.
func ComputeLogReturns(s models.PriceSeries) []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1].Close, s[i].Close
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// RealizedVolatility is the annualized sample deviation of logReturns.
func RealizedVolatility(logReturns []float64, barsPerYear float64) float64 {
	n := float64(len(logReturns))
	if n < 2 || barsPerYear <= 0 {
		return 0
	}
	sum, sum2 := 0.0, 0.0
	for _, r := range logReturns {
		sum += r
		sum2 += r * r
	}
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance * barsPerYear)
}

// BarsPerYear returns the approximate number of bars per year for a Yahoo
// interval, or 0 when the interval is unknown.
func BarsPerYear(interval string) float64 {
	const minutesPerYear = 365 * 24 * 60
	switch interval {
	case "1m":
		return minutesPerYear
	case "2m":
		return minutesPerYear / 2
	case "5m":
		return minutesPerYear / 5
	case "15m":
		return minutesPerYear / 15
	case "30m":
		return minutesPerYear / 30
	case "60m", "1h":
		return minutesPerYear / 60
	case "90m":
		return minutesPerYear / 90
	case "1d":
		return 252
	case "5d":
		return 252.0 / 5
	case "1wk":
		return 52
	case "1mo":
		return 12
	case "3mo":
		return 4
	default:
		return 0
	}
}

// Summarize returns headline statistics for s, or nil when s is empty.
func Summarize(s models.PriceSeries, interval string) *models.PanelSummary {
	if s.Empty() {
		return nil
	}
	first, last := s[0].Close, s[len(s)-1].Close
	sum := &models.PanelSummary{
		First:  first,
		Last:   last,
		Change: last - first,
		Min:    first,
		Max:    first,
	}
	if first != 0 {
		sum.ChangePct = (last - first) / first * 100
	}
	for _, p := range s[1:] {
		sum.Min = math.Min(sum.Min, p.Close)
		sum.Max = math.Max(sum.Max, p.Close)
	}
	sum.Volatility = RealizedVolatility(ComputeLogReturns(s), BarsPerYear(interval))
	return sum
}
