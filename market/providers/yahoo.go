package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smacross/market"
)

// YahooProvider fetches daily OHLCV history from the Yahoo Finance v8
// chart API.
type YahooProvider struct {
	BaseURL string
	client  *http.Client
}

func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		BaseURL: "https://query1.finance.yahoo.com",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (yp *YahooProvider) Name() string {
	return "yahoo"
}

func (yp *YahooProvider) Priority() int {
	return 3
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				// Pointer elements: yahoo emits JSON null for
				// non-trading sessions.
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (yp *YahooProvider) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		yp.BaseURL, strings.ToUpper(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := yp.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	var chart yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to parse yahoo chart response: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, ErrNoData
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	quote := result.Indicators.Quote[0]
	var bars []market.Bar
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		// Drop null rows rather than letting zero prices into the series.
		if quote.Close[i] == nil {
			continue
		}
		bars = append(bars, market.Bar{
			Symbol:    strings.ToUpper(symbol),
			Open:      at(quote.Open, i),
			High:      at(quote.High, i),
			Low:       at(quote.Low, i),
			Close:     *quote.Close[i],
			Volume:    atInt(quote.Volume, i),
			Timestamp: time.Unix(ts, 0).UTC(),
		})
	}

	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

func (yp *YahooProvider) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	end := time.Now()
	start := end.AddDate(0, 0, -7)
	_, err := yp.FetchDaily(ctx, "AAPL", start, end)
	return err
}

func at(values []*float64, i int) float64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}

func atInt(values []*int64, i int) int64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}
