package providers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smacross/market"
)

// StooqProvider fetches daily OHLCV history from the stooq.com CSV export.
type StooqProvider struct {
	BaseURL string
	client  *http.Client
}

func NewStooqProvider() *StooqProvider {
	return &StooqProvider{
		BaseURL: "https://stooq.com",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (sp *StooqProvider) Name() string {
	return "stooq"
}

func (sp *StooqProvider) Priority() int {
	return 2
}

func (sp *StooqProvider) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	url := fmt.Sprintf("%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		sp.BaseURL, convertToStooqSymbol(symbol), start.Format("20060102"), end.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := sp.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseStooqCSV(symbol, body)
}

func parseStooqCSV(symbol string, body []byte) ([]market.Bar, error) {
	text := strings.TrimSpace(string(body))
	if text == "" || strings.HasPrefix(text, "No data") {
		return nil, ErrNoData
	}

	reader := csv.NewReader(strings.NewReader(text))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse stooq csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoData
	}

	// First record is the Date,Open,High,Low,Close,Volume header.
	var bars []market.Bar
	for _, rec := range records[1:] {
		if len(rec) < 6 {
			continue
		}
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			continue
		}
		open, _ := strconv.ParseFloat(rec[1], 64)
		high, _ := strconv.ParseFloat(rec[2], 64)
		low, _ := strconv.ParseFloat(rec[3], 64)
		close, _ := strconv.ParseFloat(rec[4], 64)
		volume, _ := strconv.ParseInt(rec[5], 10, 64)

		bars = append(bars, market.Bar{
			Symbol:    symbol,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
			Timestamp: date,
		})
	}

	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

func (sp *StooqProvider) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	end := time.Now()
	start := end.AddDate(0, 0, -7)
	_, err := sp.FetchDaily(ctx, "SPY", start, end)
	return err
}

// convertToStooqSymbol maps a plain US ticker to stooq's form, which
// carries a market suffix (AAPL -> aapl.us). Symbols that already have a
// suffix pass through unchanged.
func convertToStooqSymbol(symbol string) string {
	symbol = strings.ToLower(symbol)
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".us"
}
