package indicator

import "math"

// SMA returns the simple moving average of values over period.
// The first period-1 entries are NaN.
func SMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}

	sum := 0.0

	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}

	return out
}

// RollingMin returns the minimum of each trailing window of length period.
func RollingMin(values []float64, period int) []float64 {
	return rolling(values, period, math.Min)
}

// RollingMax returns the maximum of each trailing window of length period.
func RollingMax(values []float64, period int) []float64 {
	return rolling(values, period, math.Max)
}

func rolling(values []float64, period int, pick func(a, b float64) float64) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		acc := values[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			acc = pick(acc, values[j])
		}

		out[i] = acc
	}

	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
