package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smacross/market"
)

func barsFromCloses(closes []float64) []market.Bar {
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Symbol:    "TEST",
			Close:     c,
			Timestamp: start.AddDate(0, 0, i),
		}
	}
	return bars
}

func actions(r *Result) []Action {
	out := make([]Action, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Action
	}
	return out
}

func TestCrossoverInvalidWindows(t *testing.T) {
	bars := barsFromCloses([]float64{1, 2, 3, 4, 5})

	for _, tc := range []struct {
		name        string
		short, long int
	}{
		{"short equals long", 3, 3},
		{"short greater than long", 5, 2},
		{"zero short", 0, 5},
		{"negative long", 2, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Crossover(bars, tc.short, tc.long)
			assert.ErrorIs(t, err, ErrInvalidWindows)
		})
	}
}

func TestCrossoverWorkedExample(t *testing.T) {
	// Prices 10..20, short=2, long=4. The first defined signal is at
	// index 3 where short MA (12+13)/2 = 12.5 already sits above long MA
	// (10+11+12+13)/4 = 11.5, so the one buy lands on the warm-up
	// boundary and the series never crosses back down.
	bars := barsFromCloses([]float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20})

	result, err := Crossover(bars, 2, 4)
	require.NoError(t, err)
	require.Len(t, result.Points, 11)

	assert.InDelta(t, 12.5, result.Points[3].ShortMA, 1e-9)
	assert.InDelta(t, 11.5, result.Points[3].LongMA, 1e-9)

	got := actions(result)
	assert.Equal(t, []Action{
		ActionNone, ActionNone, ActionNone,
		ActionBuy,
		ActionHold, ActionHold, ActionHold, ActionHold, ActionHold, ActionHold, ActionHold,
	}, got)

	trades := result.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, ActionBuy, trades[0].Action)
	assert.Equal(t, bars[3].Timestamp, trades[0].Timestamp)
}

func TestCrossoverSingleUpwardCross(t *testing.T) {
	// Flat series followed by a steady rise: the short mean crosses the
	// long mean exactly once.
	closes := []float64{100, 100, 100, 100, 100, 100, 101, 102, 103, 104, 105, 106}

	result, err := Crossover(barsFromCloses(closes), 2, 5)
	require.NoError(t, err)

	buys, sells := 0, 0
	for _, p := range result.Points {
		switch p.Action {
		case ActionBuy:
			buys++
		case ActionSell:
			sells++
		}
	}
	assert.Equal(t, 1, buys)
	assert.Equal(t, 0, sells)
}

func TestCrossoverDownwardCross(t *testing.T) {
	closes := []float64{106, 105, 104, 103, 102, 101, 100, 99, 98}

	result, err := Crossover(barsFromCloses(closes), 2, 4)
	require.NoError(t, err)

	trades := result.Trades()
	require.NotEmpty(t, trades)
	assert.Equal(t, ActionSell, trades[0].Action)
	for _, p := range trades {
		assert.NotEqual(t, ActionBuy, p.Action)
	}
}

func TestCrossoverTieIsHold(t *testing.T) {
	// Constant prices keep both means exactly equal; equality is never a
	// cross.
	closes := []float64{50, 50, 50, 50, 50, 50, 50, 50}

	result, err := Crossover(barsFromCloses(closes), 2, 4)
	require.NoError(t, err)

	assert.Empty(t, result.Trades())
	for i, p := range result.Points {
		if i >= 3 {
			assert.Equal(t, ActionHold, p.Action)
		}
	}
}

func TestCrossoverShortSeries(t *testing.T) {
	result, err := Crossover(barsFromCloses([]float64{10, 11}), 2, 4)
	require.NoError(t, err)

	assert.Empty(t, result.Trades())
	assert.Equal(t, -1, result.WarmupIndex())
	for _, p := range result.Points {
		assert.Equal(t, ActionNone, p.Action)
		assert.True(t, math.IsNaN(p.LongMA))
	}
}

func TestCrossoverEmptySeries(t *testing.T) {
	result, err := Crossover(nil, 2, 4)
	require.NoError(t, err)
	assert.Empty(t, result.Points)
	assert.Empty(t, result.Trades())
}

// samePoint compares two points treating NaN warm-up means as equal.
func samePoint(a, b Point) bool {
	sameFloat := func(x, y float64) bool {
		if math.IsNaN(x) || math.IsNaN(y) {
			return math.IsNaN(x) && math.IsNaN(y)
		}
		return x == y
	}
	return a.Timestamp.Equal(b.Timestamp) &&
		a.Action == b.Action &&
		sameFloat(a.Price, b.Price) &&
		sameFloat(a.ShortMA, b.ShortMA) &&
		sameFloat(a.LongMA, b.LongMA)
}

func TestCrossoverIdempotent(t *testing.T) {
	closes := []float64{10, 12, 9, 14, 13, 16, 12, 11, 15, 17, 13, 12}
	bars := barsFromCloses(closes)

	first, err := Crossover(bars, 3, 5)
	require.NoError(t, err)
	second, err := Crossover(bars, 3, 5)
	require.NoError(t, err)

	require.Len(t, second.Points, len(first.Points))
	for i := range first.Points {
		assert.True(t, samePoint(first.Points[i], second.Points[i]), "point %d differs between runs", i)
	}
}

func TestCrossoverNoLookahead(t *testing.T) {
	closes := []float64{10, 12, 9, 14, 13, 16, 12, 11, 15, 17, 13, 12, 18, 19, 11}
	bars := barsFromCloses(closes)

	full, err := Crossover(bars, 3, 5)
	require.NoError(t, err)

	for k := 5; k < len(bars); k++ {
		truncated, err := Crossover(bars[:k], 3, 5)
		require.NoError(t, err)
		for i := 0; i < k; i++ {
			assert.True(t, samePoint(full.Points[i], truncated.Points[i]),
				"point %d changed when series truncated to %d", i, k)
		}
	}
}

func TestCrossoverWarmupNaN(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15}

	result, err := Crossover(barsFromCloses(closes), 2, 4)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(result.Points[0].ShortMA))
	assert.False(t, math.IsNaN(result.Points[1].ShortMA))
	assert.True(t, math.IsNaN(result.Points[2].LongMA))
	assert.False(t, math.IsNaN(result.Points[3].LongMA))
	assert.Equal(t, 3, result.WarmupIndex())
}
