package providers

import (
	"context"
	"time"

	"smacross/market"
)

// DataProvider fetches historical daily bars for a ticker symbol.
type DataProvider interface {
	Name() string
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error)
	HealthCheck(ctx context.Context) error
	Priority() int
}

var (
	ErrProviderNotFound   = &ProviderError{Code: "provider_not_found", Message: "data provider not found"}
	ErrAllProvidersFailed = &ProviderError{Code: "all_providers_failed", Message: "all data providers failed"}
	ErrNoData             = &ProviderError{Code: "no_data", Message: "no data for symbol in the requested range"}
)

// ProviderError is a typed data-source error.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}
