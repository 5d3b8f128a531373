package engine

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

var testStart = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

// flatBars returns n weekday bars closing at price with a constant score.
func flatBars(n int, price, score, sub float64) []types.Bar {
	bars := make([]types.Bar, n)
	date := testStart

	for i := range bars {
		bars[i] = types.Bar{
			Date:     date,
			Symbol:   "2330",
			Open:     price,
			High:     price,
			Low:      price,
			Close:    price,
			Volume:   1000,
			Score:    score,
			SubScore: sub,
		}

		date = date.AddDate(0, 0, 1)
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}
	}

	return bars
}

// setClose overrides the prices of bar i.
func setClose(bars []types.Bar, i int, price float64) {
	bars[i].Open = price
	bars[i].High = price
	bars[i].Low = price
	bars[i].Close = price
}

// frictionless returns the default config without slippage so fills equal quotes.
func frictionless() types.RunConfig {
	cfg := DefaultConfig()
	cfg.Slippage = 0

	return cfg
}
