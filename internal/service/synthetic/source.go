// Package synthetic generates deterministic price history for offline
// development. It honours the same period/interval limits as Yahoo, so
// unsupported combinations come back empty.
package synthetic

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"time"

	"PriceBoard/internal/domain/models"
	domrepo "PriceBoard/internal/domain/repository"
)

// MaxPoints caps the rows of one generated table.
const MaxPoints = 5000

// Source returns a seeded random walk per ticker.
type Source struct {
	name      string
	basePrice float64
	now       func() time.Time
}

// New creates a synthetic source. name distinguishes pathways in logs.
func New(name string, basePrice float64) *Source {
	if basePrice <= 0 {
		basePrice = 100
	}
	return &Source{name: name, basePrice: basePrice, now: time.Now}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Fetch(ctx context.Context, req models.FetchRequest) (*models.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span, ok := ParsePeriod(req.Period)
	if !ok {
		return &models.Table{}, nil
	}
	step, ok := ParseInterval(req.Interval)
	if !ok || !Supported(span, step) {
		return &models.Table{}, nil
	}

	n := int(span / step)
	if n > MaxPoints {
		n = MaxPoints
	}
	end := s.now().UTC().Truncate(step)

	h := fnv.New64a()
	_, _ = h.Write([]byte(req.Ticker))
	seed := h.Sum64()

	dates := make([]any, n)
	closes := make([]any, n)
	for i := 0; i < n; i++ {
		ts := end.Add(-time.Duration(n-1-i) * step)
		dates[i] = ts.Format(time.RFC3339)
		phase := float64(seed%1000) + float64(ts.Unix())/step.Seconds()
		closes[i] = s.basePrice * (1 + 0.05*math.Sin(phase/20) + 0.01*math.Cos(phase/3))
	}
	return &models.Table{Columns: []models.Column{
		{Name: "Datetime", Values: dates},
		{Name: "Close", Values: closes},
	}}, nil
}

// Supported applies Yahoo's lookback limits: 1m bars only for the last
// 7 days, other sub-daily bars only for the last 60 days.
func Supported(span, step time.Duration) bool {
	if step <= 0 || span < step {
		return false
	}
	switch {
	case step < 2*time.Minute:
		return span <= 7*24*time.Hour
	case step < 24*time.Hour:
		return span <= 60*24*time.Hour
	default:
		return true
	}
}

// ParsePeriod converts a Yahoo range such as "5d" or "6mo" to a duration.
func ParsePeriod(p string) (time.Duration, bool) {
	const d = 24 * time.Hour
	switch p {
	case "ytd":
		now := time.Now().UTC()
		return now.Sub(time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)), true
	case "max":
		return 20 * 365 * d, true
	}
	n, unit, ok := splitUnit(p)
	if !ok {
		return 0, false
	}
	switch unit {
	case "d":
		return time.Duration(n) * d, true
	case "wk":
		return time.Duration(n) * 7 * d, true
	case "mo":
		return time.Duration(n) * 30 * d, true
	case "y":
		return time.Duration(n) * 365 * d, true
	}
	return 0, false
}

// ParseInterval converts a Yahoo interval such as "15m" or "1wk".
func ParseInterval(iv string) (time.Duration, bool) {
	n, unit, ok := splitUnit(iv)
	if !ok {
		return 0, false
	}
	switch unit {
	case "m":
		return time.Duration(n) * time.Minute, true
	case "h":
		return time.Duration(n) * time.Hour, true
	case "d":
		return time.Duration(n) * 24 * time.Hour, true
	case "wk":
		return time.Duration(n) * 7 * 24 * time.Hour, true
	case "mo":
		return time.Duration(n) * 30 * 24 * time.Hour, true
	}
	return 0, false
}

func splitUnit(s string) (int, string, bool) {
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n <= 0 {
		return 0, "", false
	}
	return n, s[i:], true
}

var _ domrepo.PriceSource = (*Source)(nil)
