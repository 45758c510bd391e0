package market

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}

	ma5 := SMA(data, 5)
	if ma5 != 30 {
		t.Errorf("Expected SMA(5) to be 30, got %f", ma5)
	}

	ma2 := SMA(data, 2)
	if ma2 != 45 {
		t.Errorf("Expected SMA(2) to be 45, got %f", ma2)
	}

	if got := SMA(data, 6); got != 0 {
		t.Errorf("Expected SMA with insufficient history to be 0, got %f", got)
	}
	if got := SMA(data, 0); got != 0 {
		t.Errorf("Expected SMA with zero period to be 0, got %f", got)
	}
}

func TestSMASeries(t *testing.T) {
	data := []float64{10, 11, 12, 13, 14}
	series := SMASeries(data, 3)

	if len(series) != len(data) {
		t.Fatalf("series length %d, want %d", len(series), len(data))
	}

	for i := 0; i < 2; i++ {
		if !math.IsNaN(series[i]) {
			t.Errorf("series[%d] = %f, want NaN during warm-up", i, series[i])
		}
	}

	want := []float64{11, 12, 13}
	for i, w := range want {
		if got := series[i+2]; math.Abs(got-w) > 1e-9 {
			t.Errorf("series[%d] = %f, want %f", i+2, got, w)
		}
	}
}

func TestSMASeriesMatchesTrailingSMA(t *testing.T) {
	data := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	series := SMASeries(data, 4)

	for i := 3; i < len(data); i++ {
		want := SMA(data[:i+1], 4)
		if math.Abs(series[i]-want) > 1e-9 {
			t.Errorf("series[%d] = %f, want %f", i, series[i], want)
		}
	}
}
