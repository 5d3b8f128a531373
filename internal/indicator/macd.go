package indicator

// MACD returns the MACD line (fast EMA - slow EMA) and its signal line.
func MACD(closes []float64, fast, slow, signal int) (macdLine []float64, signalLine []float64) {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	macdLine = make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	return macdLine, EMA(macdLine, signal)
}
