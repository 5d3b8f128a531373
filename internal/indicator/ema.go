package indicator

import "math"

// EMA returns the exponential moving average of values with alpha = 2/(span+1).
// It is seeded with the first non-NaN input, matching a non-adjusted EWM, so it
// has no warm-up beyond leading NaNs in the input.
func EMA(values []float64, span int) []float64 {
	out := nanSeries(len(values))
	if span <= 0 {
		return out
	}

	alpha := 2.0 / float64(span+1)
	ema := math.NaN()

	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}

		if math.IsNaN(ema) {
			ema = v
		} else {
			ema = v*alpha + ema*(1-alpha)
		}

		out[i] = ema
	}

	return out
}
