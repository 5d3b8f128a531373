package indicator

// RSI returns the Relative Strength Index of closes using Wilder's smoothing.
// The first period entries are NaN.
func RSI(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	avgGain := 0.0
	avgLoss := 0.0

	// First average
	for i := 1; i <= period; i++ {
		gain, loss := priceChange(closes[i-1], closes[i])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	// Subsequent averages using Wilder's smoothing method
	for i := period + 1; i < len(closes); i++ {
		gain, loss := priceChange(closes[i-1], closes[i])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func priceChange(prev, cur float64) (gain, loss float64) {
	change := cur - prev
	if change > 0 {
		return change, 0
	}

	return 0, -change
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100 // Perfect uptrend
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
