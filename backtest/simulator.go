// Package backtest replays a computed signal sequence and logs the
// simulated trades.
package backtest

import (
	"fmt"
	"io"
	"time"

	"smacross/strategy"
)

// Trade is one simulated order, emitted when the signal transitions.
type Trade struct {
	Timestamp time.Time       `json:"timestamp"`
	Action    strategy.Action `json:"action"`
	Symbol    string          `json:"symbol"`
	Price     float64         `json:"price"`
}

// Summary aggregates a simulation run. NetReturn is the cumulative
// return of one-share buy-then-sell round trips; an open position at the
// end of the series is left out.
type Summary struct {
	TotalTrades int     `json:"total_trades"`
	Buys        int     `json:"buys"`
	Sells       int     `json:"sells"`
	RoundTrips  int     `json:"round_trips"`
	NetReturn   float64 `json:"net_return"`
}

// Simulate walks the signal sequence in timestamp order and emits a
// trade whenever the signal switches to a different buy/sell state.
// Consecutive duplicate actions are suppressed. Trade lines are written
// to w as a side effect; holds and warm-up bars produce no output.
func Simulate(result *strategy.Result, w io.Writer) ([]Trade, Summary) {
	var (
		trades  []Trade
		summary Summary
		last    strategy.Action
		entry   float64
		inTrade bool
	)

	for _, point := range result.Points {
		if point.Action != strategy.ActionBuy && point.Action != strategy.ActionSell {
			continue
		}
		if point.Action == last {
			continue
		}
		last = point.Action

		trade := Trade{
			Timestamp: point.Timestamp,
			Action:    point.Action,
			Symbol:    result.Symbol,
			Price:     point.Price,
		}
		trades = append(trades, trade)

		if w != nil {
			fmt.Fprintf(w, "%s %s %s at %.2f\n",
				trade.Timestamp.Format("2006-01-02"), trade.Action, trade.Symbol, trade.Price)
		}

		switch trade.Action {
		case strategy.ActionBuy:
			summary.Buys++
			entry = trade.Price
			inTrade = true
		case strategy.ActionSell:
			summary.Sells++
			if inTrade && entry != 0 {
				summary.NetReturn += (trade.Price - entry) / entry
				summary.RoundTrips++
			}
			inTrade = false
		}
	}

	summary.TotalTrades = len(trades)
	return trades, summary
}

// WriteSummary prints the post-run summary in the same console format as
// the trade lines.
func WriteSummary(w io.Writer, symbol string, s Summary) {
	fmt.Fprintf(w, "\n%s: %d trades (%d buys, %d sells)\n", symbol, s.TotalTrades, s.Buys, s.Sells)
	if s.RoundTrips > 0 {
		fmt.Fprintf(w, "net return over %d round trips: %.2f%%\n", s.RoundTrips, s.NetReturn*100)
	}
}
