package stats

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// TradingDaysPerYear annualises the daily Sharpe ratio.
const TradingDaysPerYear = 252

// TradeAccumulator holds running statistics over a trade log.
type TradeAccumulator struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	TotalProfit   float64
	TotalPct      float64
	TotalGains    float64
	TotalLosses   float64
	TotalFees     float64
	MaxProfit     float64
	MaxLoss       float64
	HoldingDays   int
	ExitReasons   map[types.ExitReason]int
}

func newTradeAccumulator() *TradeAccumulator {
	return &TradeAccumulator{
		TotalTrades:   0,
		WinningTrades: 0,
		LosingTrades:  0,
		TotalProfit:   0,
		TotalPct:      0,
		TotalGains:    0,
		TotalLosses:   0,
		TotalFees:     0,
		MaxProfit:     0,
		MaxLoss:       0,
		HoldingDays:   0,
		ExitReasons:   make(map[types.ExitReason]int),
	}
}

// Add records a closed trade. Break-even trades count as losing trades.
func (acc *TradeAccumulator) Add(trade types.Trade) {
	profit := trade.NetProfit

	if acc.TotalTrades == 0 || profit > acc.MaxProfit {
		acc.MaxProfit = profit
	}

	if acc.TotalTrades == 0 || profit < acc.MaxLoss {
		acc.MaxLoss = profit
	}

	acc.TotalTrades++
	acc.TotalProfit += profit
	acc.TotalPct += trade.ProfitPct
	acc.TotalFees += trade.Fees()
	acc.HoldingDays += trade.HoldingDays
	acc.ExitReasons[trade.ExitReason]++

	if trade.IsWin() {
		acc.WinningTrades++
		acc.TotalGains += profit
	} else {
		acc.LosingTrades++
		acc.TotalLosses += -profit
	}
}

// ProfitFactor is gains over losses, +Inf without losses and 0 without gains.
func (acc *TradeAccumulator) ProfitFactor() float64 {
	if acc.WinningTrades == 0 || acc.TotalGains == 0 {
		return 0
	}

	if acc.TotalLosses == 0 {
		return math.Inf(1)
	}

	return acc.TotalGains / acc.TotalLosses
}

// Calculate derives every metric of a run from its trade log and equity curve.
// It never fails: empty inputs produce zero values.
func Calculate(trades []types.Trade, curve []types.EquityPoint) types.Metrics {
	acc := newTradeAccumulator()
	for _, trade := range trades {
		acc.Add(trade)
	}

	metrics := types.Metrics{
		TotalTrades:    acc.TotalTrades,
		WinningTrades:  acc.WinningTrades,
		LosingTrades:   acc.LosingTrades,
		WinRate:        0,
		AvgProfit:      0,
		AvgProfitPct:   0,
		MaxProfit:      acc.MaxProfit,
		MaxLoss:        acc.MaxLoss,
		ProfitFactor:   acc.ProfitFactor(),
		SharpeRatio:    SharpeRatio(curve),
		MaxDrawdown:    MaxDrawdown(curve),
		AvgHoldingDays: 0,
		TotalGains:     acc.TotalGains,
		TotalLosses:    acc.TotalLosses,
		TotalFees:      acc.TotalFees,
		ExitReasons:    acc.ExitReasons,
	}

	if acc.TotalTrades > 0 {
		n := float64(acc.TotalTrades)
		metrics.WinRate = float64(acc.WinningTrades) / n
		metrics.AvgProfit = acc.TotalProfit / n
		metrics.AvgProfitPct = acc.TotalPct / n
		metrics.AvgHoldingDays = float64(acc.HoldingDays) / n
	}

	return metrics
}

// MaxDrawdown returns the largest peak-to-trough decline of the curve as a
// fraction of the peak, in a single pass.
func MaxDrawdown(curve []types.EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}

	maxDrawdown := 0.0
	peak := curve[0].Equity

	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}

		if peak <= 0 {
			continue
		}

		drawdown := (peak - point.Equity) / peak
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return maxDrawdown
}

// DailyReturns returns the simple returns between consecutive equity points.
func DailyReturns(curve []types.EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(curve)-1)

	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			returns = append(returns, 0)

			continue
		}

		returns = append(returns, (curve[i].Equity-prev)/prev)
	}

	return returns
}

// SharpeRatio is mean / population stdev of daily returns, annualised with
// sqrt(252). It is 0 when there is no variation or fewer than two returns.
func SharpeRatio(curve []types.EquityPoint) float64 {
	returns := DailyReturns(curve)
	if len(returns) < 2 {
		return 0
	}

	mean, std := meanStd(returns)
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(TradingDaysPerYear)
}

func meanStd(values []float64) (mean, std float64) {
	n := float64(len(values))

	for _, v := range values {
		mean += v
	}

	mean /= n

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}

	return mean, math.Sqrt(variance / n)
}
