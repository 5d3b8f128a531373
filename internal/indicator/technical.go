package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

const TechnicalScorerName = "enhanced"

// TechnicalScorerConfig holds the indicator periods used by TechnicalScorer.
type TechnicalScorerConfig struct {
	KDPeriod      int
	KDSmoothK     int
	KDSmoothD     int
	OBVShort      int
	OBVLong       int
	MAShort       int
	MAMedium      int
	MALong        int
	RSIPeriod     int
	MACDFast      int
	MACDSlow      int
	MACDSignal    int
	TrendLookback int
}

// DefaultTechnicalScorerConfig returns KD(9,3,3), OBV with 5/10 averages,
// MA10/20/60, RSI(14) and MACD(12,26,9).
func DefaultTechnicalScorerConfig() TechnicalScorerConfig {
	return TechnicalScorerConfig{
		KDPeriod:      9,
		KDSmoothK:     3,
		KDSmoothD:     3,
		OBVShort:      5,
		OBVLong:       10,
		MAShort:       10,
		MAMedium:      20,
		MALong:        60,
		RSIPeriod:     14,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		TrendLookback: 5,
	}
}

// TechnicalScorer scores each bar from KD, OBV, moving averages, RSI and MACD.
//
// The total ranges roughly from -25 to 40 with the weights
// KD 15, OBV 10, MA 10, RSI 2.5 and MACD 2.5. Sub is the KD component.
// Scores are valid once the long moving average exists.
type TechnicalScorer struct {
	config TechnicalScorerConfig
}

func NewTechnicalScorer() Scorer {
	return NewTechnicalScorerWithConfig(DefaultTechnicalScorerConfig())
}

func NewTechnicalScorerWithConfig(config TechnicalScorerConfig) Scorer {
	return &TechnicalScorer{config: config}
}

func (t *TechnicalScorer) Name() string {
	return TechnicalScorerName
}

// WarmUp returns the number of bars before the first valid score.
func (t *TechnicalScorer) WarmUp() int {
	return t.config.MALong - 1
}

type technicalSeries struct {
	closes     []float64
	k, d       []float64
	obv        []float64
	obvShort   []float64
	obvLong    []float64
	maShort    []float64
	maMedium   []float64
	maLong     []float64
	rsi        []float64
	macd       []float64
	macdSignal []float64
}

func (t *TechnicalScorer) Score(bars []types.Bar) ([]types.Score, error) {
	required := t.config.MALong
	if len(bars) < required {
		symbol := ""
		if len(bars) > 0 {
			symbol = bars[0].Symbol
		}

		return nil, errors.NewInsufficientDataErrorf(required, len(bars), symbol,
			"technical score requires %d bars for MA%d, got %d", required, t.config.MALong, len(bars))
	}

	series := t.compute(bars)

	scores := make([]types.Score, len(bars))
	for i := range bars {
		if math.IsNaN(series.maLong[i]) {
			continue
		}

		kd := t.kdScore(series, i)
		total := kd + t.obvScore(series, i) + t.maScore(series, i) + rsiScore(series.rsi[i]) +
			macdScore(series.macd[i], series.macdSignal[i])

		scores[i] = types.Score{Total: total, Sub: kd, Valid: true}
	}

	return scores, nil
}

func (t *TechnicalScorer) compute(bars []types.Bar) technicalSeries {
	n := len(bars)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)

	for i, bar := range bars {
		highs[i] = bar.High
		lows[i] = bar.Low
		closes[i] = bar.Close
		volumes[i] = bar.Volume
	}

	c := t.config
	k, d := Stochastic(highs, lows, closes, c.KDPeriod, c.KDSmoothK, c.KDSmoothD)
	obv := OBV(closes, volumes)
	macdLine, signalLine := MACD(closes, c.MACDFast, c.MACDSlow, c.MACDSignal)

	return technicalSeries{
		closes:     closes,
		k:          k,
		d:          d,
		obv:        obv,
		obvShort:   SMA(obv, c.OBVShort),
		obvLong:    SMA(obv, c.OBVLong),
		maShort:    SMA(closes, c.MAShort),
		maMedium:   SMA(closes, c.MAMedium),
		maLong:     SMA(closes, c.MALong),
		rsi:        RSI(closes, c.RSIPeriod),
		macd:       macdLine,
		macdSignal: signalLine,
	}
}

func (t *TechnicalScorer) kdScore(s technicalSeries, i int) float64 {
	k, d := s.k[i], s.d[i]
	if math.IsNaN(k) || math.IsNaN(d) {
		return 0
	}

	score := 0.0

	if i > 0 {
		kPrev, dPrev := s.k[i-1], s.d[i-1]
		goldenCross := k > d && kPrev <= dPrev
		deathCross := k < d && kPrev >= dPrev

		switch {
		case k < 20 && goldenCross:
			score += 15
		case k < 50 && goldenCross:
			score += 12
		case k > 80 && deathCross:
			score -= 10
		case k > 50 && deathCross:
			score -= 5
		case k > d && k < 70:
			score += 8
		case k < d:
			score += 2
		}
	}

	// overbought / oversold adjustment
	if k > 80 {
		score -= 3
	} else if k < 20 {
		score += 3
	}

	return score
}

func (t *TechnicalScorer) obvScore(s technicalSeries, i int) float64 {
	obv, short, long := s.obv[i], s.obvShort[i], s.obvLong[i]
	if math.IsNaN(short) || math.IsNaN(long) {
		return 0
	}

	score := 0.0

	switch {
	case obv > short && short > long:
		score += 10
	case obv > short:
		score += 6
	case obv < short && short < long:
		score -= 5
	}

	// price/volume divergence
	lookback := t.config.TrendLookback
	if i > lookback {
		prevClose := s.closes[i-lookback]
		prevOBV := s.obv[i-lookback]
		priceTrend := (s.closes[i] - prevClose) / prevClose
		obvTrend := (obv - prevOBV) / (math.Abs(prevOBV) + 1)

		if priceTrend > 0.02 && obvTrend < 0 {
			score -= 3
		} else if priceTrend < -0.02 && obvTrend > 0 {
			score += 2
		}
	}

	return score
}

func (t *TechnicalScorer) maScore(s technicalSeries, i int) float64 {
	price, short, medium, long := s.closes[i], s.maShort[i], s.maMedium[i], s.maLong[i]
	if math.IsNaN(short) || math.IsNaN(medium) || math.IsNaN(long) {
		return 0
	}

	score := 0.0

	switch {
	case price > short && short > medium && medium > long:
		score += 10
	case price > short && short > medium:
		score += 7
	case price > short:
		score += 4
	case price < short && short < medium && medium < long:
		score -= 5
	case price < short:
		score -= 2
	}

	distance := (price - short) / short
	if distance > -0.03 && distance < 0.03 {
		score += 2
	}

	return score
}

func rsiScore(rsi float64) float64 {
	switch {
	case math.IsNaN(rsi):
		return 0
	case rsi > 40 && rsi < 60:
		return 2.5
	case rsi > 30 && rsi < 40:
		return 1.5
	case rsi <= 30:
		return 1
	case rsi > 60 && rsi < 70:
		return 1
	case rsi >= 70:
		return -1
	default:
		return 0
	}
}

func macdScore(macd, signal float64) float64 {
	switch {
	case math.IsNaN(macd) || math.IsNaN(signal):
		return 0
	case macd > signal && macd > 0:
		return 2.5
	case macd > signal:
		return 1.5
	case macd < signal:
		return -1
	default:
		return 0
	}
}
