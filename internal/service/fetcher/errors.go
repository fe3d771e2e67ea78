package fetcher

import "fmt"

// ProviderError records why one retrieval pathway produced nothing.
// It is logged and then dropped; callers only ever see a series.
type ProviderError struct {
	Source string
	Ticker string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Ticker, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
