// Package normalize turns loosely shaped provider tables into the canonical
// PriceSeries: UTC timestamps, one close per timestamp, ascending.
package normalize

import (
	"errors"
	"fmt"
	"sort"

	"PriceBoard/internal/domain/models"
)

// ErrMalformedInput is returned by Table when no usable series can be
// extracted. Normalize swallows it and yields an empty series.
var ErrMalformedInput = errors.New("normalize: malformed input")

// Normalize is the total form of Table: it never fails and returns an
// empty series for anything it cannot read.
func Normalize(t *models.Table) models.PriceSeries {
	s, err := Table(t)
	if err != nil {
		return models.PriceSeries{}
	}
	return s
}

// Table extracts (timestamp, close) rows from t. On error the returned
// series is empty but non-nil.
func Table(t *models.Table) (models.PriceSeries, error) {
	empty := models.PriceSeries{}
	if t.Empty() {
		return empty, fmt.Errorf("%w: empty table", ErrMalformedInput)
	}

	stamps, tsSource, ok := resolveTimestamps(t)
	if !ok {
		return empty, fmt.Errorf("%w: no timestamp column", ErrMalformedInput)
	}
	closeCol, ok := resolveClose(t)
	if !ok {
		return empty, fmt.Errorf("%w: no close column", ErrMalformedInput)
	}

	rows := t.Rows()
	out := make(models.PriceSeries, 0, rows)
	seen := make(map[int64]struct{}, rows)
	for i := 0; i < rows; i++ {
		var raw any
		if i < len(stamps) {
			raw = stamps[i]
		}
		ts, ok := parseTimestamp(raw)
		if !ok {
			continue
		}
		c, ok := parseClose(closeCol.Cell(i))
		if !ok {
			continue
		}
		key := ts.UnixNano()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, models.Point{TS: ts, Close: c})
	}

	if len(out) == 0 {
		return empty, fmt.Errorf("%w: no valid rows (timestamps from %s, close from %q)",
			ErrMalformedInput, tsSource, closeCol.Label())
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TS.Before(out[j].TS) })
	return out, nil
}
