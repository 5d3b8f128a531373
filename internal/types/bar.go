package types

import "time"

// Bar is one trading day of market data together with its technical scores.
// Bars are immutable once loaded and are ordered strictly by date ascending.
type Bar struct {
	Date   time.Time `yaml:"date" json:"date" csv:"date"`
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
	// Score is the overall technical score computed outside the engine.
	Score float64 `yaml:"score" json:"score" csv:"score"`
	// SubScore is the sub-indicator score used by the second half of the entry gate.
	SubScore float64 `yaml:"sub_score" json:"sub_score" csv:"sub_score"`
}

// Score is the output of a scoring function for a single bar.
type Score struct {
	// Total is the overall technical score.
	Total float64 `yaml:"total" json:"total"`
	// Sub is the sub-indicator score (e.g. the KD component).
	Sub float64 `yaml:"sub" json:"sub"`
	// Valid is false while the scorer is still warming up. Invalid scores
	// never open a position and never trigger a deterioration exit.
	Valid bool `yaml:"valid" json:"valid"`
}

// DataPeriod describes the span of bars a run was executed on.
type DataPeriod struct {
	Start     time.Time `yaml:"start" json:"start"`
	End       time.Time `yaml:"end" json:"end"`
	TotalDays int       `yaml:"total_days" json:"total_days"`
}

// NewDataPeriod returns the period covered by bars. Empty input yields a zero period.
func NewDataPeriod(bars []Bar) DataPeriod {
	if len(bars) == 0 {
		return DataPeriod{}
	}

	return DataPeriod{
		Start:     bars[0].Date,
		End:       bars[len(bars)-1].Date,
		TotalDays: len(bars),
	}
}
