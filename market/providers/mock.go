package providers

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"smacross/market"
)

// MockProvider serves a synthetic daily random walk. The walk is seeded
// from the symbol, so repeated fetches over the same range return the
// same series. Useful for offline demos and tests.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (mp *MockProvider) Name() string {
	return "mock"
}

func (mp *MockProvider) Priority() int {
	return 0
}

func (mp *MockProvider) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	if !start.Before(end) {
		return nil, ErrNoData
	}

	rng := rand.New(rand.NewSource(seedFor(symbol)))
	price := 20.0 + rng.Float64()*180.0

	var bars []market.Bar
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		// Skip weekends to look like an exchange calendar.
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		change := (rng.Float64() - 0.49) * 0.03 // slight upward drift
		open := price
		price = price * (1 + change)
		high := open
		low := open
		if price > high {
			high = price
		}
		if price < low {
			low = price
		}
		high *= 1 + rng.Float64()*0.005
		low *= 1 - rng.Float64()*0.005

		bars = append(bars, market.Bar{
			Symbol:    symbol,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    1_000_000 + rng.Int63n(9_000_000),
			Timestamp: day,
		})
	}

	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

func (mp *MockProvider) HealthCheck(ctx context.Context) error {
	return nil
}

func seedFor(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}
