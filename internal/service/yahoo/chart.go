package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"PriceBoard/internal/domain/models"
	xhttp "PriceBoard/pkg/http"
)

// chartResponse is the subset of the v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
		GMTOffset            int    `json:"gmtoffset"`
		DataGranularity      string `json:"dataGranularity"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// series is one named OHLCV field of a chart result.
type series struct {
	name   string
	values []*float64
}

// fields returns OHLCV columns in provider order. With adjust set and an
// adjusted close available, Close carries the adjusted values.
func (r *chartResult) fields(adjust bool) []series {
	var q struct {
		Open, High, Low, Close, Volume []*float64
	}
	if len(r.Indicators.Quote) > 0 {
		src := r.Indicators.Quote[0]
		q.Open, q.High, q.Low, q.Close, q.Volume = src.Open, src.High, src.Low, src.Close, src.Volume
	}
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	closes := q.Close
	if adjust && len(adj) > 0 {
		closes = adj
	}
	out := []series{
		{name: "Open", values: q.Open},
		{name: "High", values: q.High},
		{name: "Low", values: q.Low},
		{name: "Close", values: closes},
		{name: "Volume", values: q.Volume},
	}
	if !adjust && len(adj) > 0 {
		out = append(out, series{name: "Adj Close", values: adj})
	}
	return out
}

// location returns the exchange time zone of the result.
func (r *chartResult) location() *time.Location {
	if name := r.Meta.ExchangeTimezoneName; name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.FixedZone("exchange", r.Meta.GMTOffset)
}

func cells(values []*float64, n int) []any {
	out := make([]any, n)
	for i := 0; i < n && i < len(values); i++ {
		if values[i] != nil {
			out[i] = *values[i]
		}
	}
	return out
}

// isIntraday reports whether interval is finer than one day.
func isIntraday(interval string) bool {
	return strings.HasSuffix(interval, "m") || strings.HasSuffix(interval, "h")
}

// chartAPI fetches chart payloads from one Yahoo host.
type chartAPI struct {
	client    *xhttp.Client
	baseURL   string
	symbolMap map[string]string
}

func (a *chartAPI) symbol(ticker string) string {
	if mapped, ok := a.symbolMap[ticker]; ok {
		return mapped
	}
	return ticker
}

func (a *chartAPI) fetch(ctx context.Context, req models.FetchRequest, extra map[string][]string) (*chartResult, error) {
	params := map[string][]string{
		"range":          {req.Period},
		"interval":       {req.Interval},
		"includePrePost": {"false"},
		"events":         {"div,splits"},
	}
	for k, v := range extra {
		params[k] = v
	}

	var resp chartResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         strings.TrimRight(a.baseURL, "/") + "/v8/finance/chart/" + url.PathEscape(a.symbol(req.Ticker)),
		QueryParams: params,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", req.Ticker, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}
	return &resp.Chart.Result[0], nil
}
