package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// DataGenerator generates realistic daily bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the ticker (e.g., "2330")
	Symbol string
	// StartDate is the first trading day of the series
	StartDate time.Time
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.02 = 2% typical daily volatility)
	Volatility float64
	// Trend is the drift factor over the whole series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
	// ScoreMin and ScoreMax bound the uniformly drawn overall score
	ScoreMin float64
	ScoreMax float64
	// SubScoreMax bounds the uniformly drawn sub score, which starts at 0
	SubScoreMax float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartDate:      time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Count:          250,
		InitialPrice:   100.0,
		Volatility:     0.02, // 2% per day
		Trend:          0.0,  // neutral
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
		ScoreMin:       0,
		ScoreMax:       40,
		SubScoreMax:    15,
	}
}

// Generate creates daily bars on weekdays following a geometric Brownian
// motion, each carrying a random precomputed score.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentDate := nextTradingDay(config.StartDate)

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Using Box-Muller transform for normal distribution
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(1-u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count) // Distribute trend across bars

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99 // Prevent negative prices
		}

		// High and low are within the open-close range plus some extension
		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension

		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		// Volume with variance
		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation

		score := config.ScoreMin + g.rng.Float64()*(config.ScoreMax-config.ScoreMin)
		subScore := g.rng.Float64() * config.SubScoreMax

		bars[i] = types.Bar{
			Date:     currentDate,
			Symbol:   config.Symbol,
			Open:     roundToDecimals(open, 2),
			High:     roundToDecimals(high, 2),
			Low:      roundToDecimals(low, 2),
			Close:    roundToDecimals(close, 2),
			Volume:   math.Round(volume),
			Score:    roundToDecimals(score, 1),
			SubScore: roundToDecimals(subScore, 1),
		}

		// Update for next iteration
		currentPrice = close
		currentDate = nextTradingDay(currentDate.AddDate(0, 0, 1))
	}

	return bars
}

// GenerateYear is a convenience function that generates a year of trading
// days with default settings.
func GenerateYear(symbol string) []types.Bar {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Symbol = symbol

	return gen.Generate(config)
}

func nextTradingDay(date time.Time) time.Time {
	for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, 1)
	}

	return date
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
