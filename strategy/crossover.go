// Package strategy computes moving-average crossover signals over a
// historical price series.
package strategy

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"smacross/market"
)

// Action is the per-bar signal category.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
	// ActionNone marks bars inside the warm-up period, before the long
	// window has enough history for a signal.
	ActionNone Action = ""
)

var ErrInvalidWindows = fmt.Errorf("short window must be a positive integer smaller than the long window")

// Point is one bar of the computed series. ShortMA and LongMA are NaN
// while their window has insufficient history.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	ShortMA   float64   `json:"short_ma"`
	LongMA    float64   `json:"long_ma"`
	Action    Action    `json:"action,omitempty"`
}

// MarshalJSON renders warm-up NaN means as null so the chart layer sees
// a gap instead of a marshalling error.
func (p Point) MarshalJSON() ([]byte, error) {
	type jsonPoint struct {
		Timestamp time.Time `json:"timestamp"`
		Price     float64   `json:"price"`
		ShortMA   *float64  `json:"short_ma"`
		LongMA    *float64  `json:"long_ma"`
		Action    Action    `json:"action,omitempty"`
	}

	out := jsonPoint{Timestamp: p.Timestamp, Price: p.Price, Action: p.Action}
	if !math.IsNaN(p.ShortMA) {
		out.ShortMA = &p.ShortMA
	}
	if !math.IsNaN(p.LongMA) {
		out.LongMA = &p.LongMA
	}
	return json.Marshal(out)
}

// Result is the full crossover computation for one symbol and one pair
// of windows.
type Result struct {
	Symbol      string  `json:"symbol"`
	ShortWindow int     `json:"short_window"`
	LongWindow  int     `json:"long_window"`
	Points      []Point `json:"points"`
}

// Crossover computes short and long simple moving averages over the bar
// series and derives a buy/sell/hold signal per bar.
//
// A bar at index i >= longWindow-1 gets a buy when the short mean
// crosses above the long mean between i-1 and i, a sell on the reverse
// cross, and a hold otherwise. Exact equality of the means counts as no
// cross. At the first index with defined means there is no previous
// comparison; the prior relation is treated as a tie, so a strict
// inequality there still produces the boundary signal.
//
// The function is pure: it reads only the input series and never looks
// ahead of the bar being computed.
func Crossover(bars []market.Bar, shortWindow, longWindow int) (*Result, error) {
	if shortWindow <= 0 || longWindow <= 0 || shortWindow >= longWindow {
		return nil, ErrInvalidWindows
	}

	closes := market.Closes(bars)
	shortMA := market.SMASeries(closes, shortWindow)
	longMA := market.SMASeries(closes, longWindow)

	result := &Result{
		ShortWindow: shortWindow,
		LongWindow:  longWindow,
		Points:      make([]Point, len(bars)),
	}
	if len(bars) > 0 {
		result.Symbol = bars[0].Symbol
	}

	for i, bar := range bars {
		point := Point{
			Timestamp: bar.Timestamp,
			Price:     bar.Close,
			ShortMA:   shortMA[i],
			LongMA:    longMA[i],
			Action:    ActionNone,
		}

		if i >= longWindow-1 {
			point.Action = classify(shortMA, longMA, i, longWindow)
		}

		result.Points[i] = point
	}

	return result, nil
}

// classify decides the signal at index i from the relation of the two
// means at i and i-1.
func classify(shortMA, longMA []float64, i, longWindow int) Action {
	above := shortMA[i] > longMA[i]
	below := shortMA[i] < longMA[i]

	// Boundary bar: no previous means, treat the prior relation as a tie.
	prevAbove := false
	prevBelow := false
	if i > longWindow-1 {
		prevAbove = shortMA[i-1] > longMA[i-1]
		prevBelow = shortMA[i-1] < longMA[i-1]
	}

	switch {
	case above && !prevAbove:
		return ActionBuy
	case below && !prevBelow:
		return ActionSell
	default:
		return ActionHold
	}
}

// Trades returns the points whose action is buy or sell, in order.
func (r *Result) Trades() []Point {
	var trades []Point
	for _, p := range r.Points {
		if p.Action == ActionBuy || p.Action == ActionSell {
			trades = append(trades, p)
		}
	}
	return trades
}

// WarmupIndex returns the first index with a defined signal, or -1 when
// the series is shorter than the long window.
func (r *Result) WarmupIndex() int {
	if len(r.Points) < r.LongWindow {
		return -1
	}
	return r.LongWindow - 1
}
