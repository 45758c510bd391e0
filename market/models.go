package market

import "time"

// Bar is one daily OHLCV record. Bar slices are kept in chronological
// order, one entry per trading day, and are never mutated after fetching.
type Bar struct {
	Symbol    string    `json:"symbol"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// Closes extracts the close prices of a bar series.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// SortedByTime reports whether the series is chronologically ordered.
func SortedByTime(bars []Bar) bool {
	for i := 1; i < len(bars); i++ {
		if bars[i].Timestamp.Before(bars[i-1].Timestamp) {
			return false
		}
	}
	return true
}
