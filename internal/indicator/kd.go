package indicator

// Stochastic returns the K and D lines of the KD oscillator.
//
// RSV is computed over n bars and then smoothed into K with span m1 and into D
// with span m2. Both lines are NaN until the first full RSV window.
func Stochastic(highs, lows, closes []float64, n, m1, m2 int) (k []float64, d []float64) {
	lowN := RollingMin(lows, n)
	highN := RollingMax(highs, n)

	rsv := nanSeries(len(closes))
	for i := range closes {
		rsv[i] = 100 * (closes[i] - lowN[i]) / (highN[i] - lowN[i] + 1e-10)
	}

	k = EMA(rsv, m1)

	return k, EMA(k, m2)
}
