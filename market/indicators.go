package market

import "math"

// SMA calculates the simple moving average of the trailing period values
func SMA(closes []float64, period int) float64 {
	if len(closes) < period || period <= 0 {
		return 0
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period)
}

// SMASeries calculates the rolling simple moving average over the whole
// series. The first period-1 positions have insufficient history and are
// set to NaN.
func SMASeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if period <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// IsUndefined reports whether an indicator value is the NaN placeholder
// used for positions with insufficient history.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}
