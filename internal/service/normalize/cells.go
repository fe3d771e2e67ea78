package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"PriceBoard/pkg/util"
)

// parseTimestamp reads a cell as a UTC time. Zoned values are converted to
// UTC; values without a zone are taken to already be UTC.
func parseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.UTC(), true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return parseTimestamp(*x)
	case string:
		return util.ParseTime(x)
	case int64:
		return unixSeconds(x)
	case int:
		return unixSeconds(int64(x))
	case int32:
		return unixSeconds(int64(x))
	case float64:
		return util.UnixFloat(x)
	case json.Number:
		return util.ParseTime(x.String())
	default:
		return time.Time{}, false
	}
}

func unixSeconds(s int64) (time.Time, bool) {
	if s <= 0 {
		return time.Time{}, false
	}
	return time.Unix(s, 0).UTC(), true
}

// parseClose reads a cell as a finite float.
func parseClose(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case *float64:
		if x == nil {
			return 0, false
		}
		f = *x
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
