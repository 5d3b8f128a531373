package types

import (
	"time"
)

// ExitReason explains why a position was closed.
type ExitReason string

const (
	ExitReasonStopLoss           ExitReason = "stop_loss"
	ExitReasonTakeProfit         ExitReason = "take_profit"
	ExitReasonScoreDeterioration ExitReason = "score_deterioration"
	ExitReasonForcedCloseAtEnd   ExitReason = "forced_close_at_end"
)

// AllExitReasons lists every exit reason in a stable order.
var AllExitReasons = []ExitReason{
	ExitReasonStopLoss,
	ExitReasonTakeProfit,
	ExitReasonScoreDeterioration,
	ExitReasonForcedCloseAtEnd,
}

// Position is the single open trade held by a run.
type Position struct {
	EntryDate  time.Time `yaml:"entry_date" json:"entry_date"`
	EntryIndex int       `yaml:"entry_index" json:"entry_index"`
	// EntryPrice is the fill price after slippage.
	EntryPrice float64 `yaml:"entry_price" json:"entry_price"`
	Shares     int64   `yaml:"shares" json:"shares"`
	// EntryFee is the commission paid on entry.
	EntryFee float64 `yaml:"entry_fee" json:"entry_fee"`
	// NetCost is the cash debited on entry (notional plus commission).
	NetCost float64 `yaml:"net_cost" json:"net_cost"`
	// StopLoss and TakeProfit are fractional returns fixed at entry.
	StopLoss   float64 `yaml:"stop_loss" json:"stop_loss"`
	TakeProfit float64 `yaml:"take_profit" json:"take_profit"`
	EntryScore Score   `yaml:"entry_score" json:"entry_score"`
}

// MarketValue returns the mark-to-market value of the position at price.
func (p *Position) MarketValue(price float64) float64 {
	return float64(p.Shares) * price
}

// UnrealizedReturn returns (price - entry) / entry.
func (p *Position) UnrealizedReturn(price float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}

	return (price - p.EntryPrice) / p.EntryPrice
}

// Trade is a completed round trip. Trades are never mutated after creation.
type Trade struct {
	EntryDate  time.Time `yaml:"entry_date" json:"entry_date" csv:"entry_date"`
	ExitDate   time.Time `yaml:"exit_date" json:"exit_date" csv:"exit_date"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice  float64   `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	Shares     int64     `yaml:"shares" json:"shares" csv:"shares"`
	EntryFee   float64   `yaml:"entry_fee" json:"entry_fee" csv:"entry_fee"`
	ExitFee    float64   `yaml:"exit_fee" json:"exit_fee" csv:"exit_fee"`
	ExitTax    float64   `yaml:"exit_tax" json:"exit_tax" csv:"exit_tax"`
	// GrossProfit is (exit price - entry price) * shares, before costs.
	GrossProfit float64 `yaml:"gross_profit" json:"gross_profit" csv:"gross_profit"`
	// NetProfit is net proceeds on exit minus net cost on entry.
	NetProfit float64 `yaml:"net_profit" json:"net_profit" csv:"net_profit"`
	// ProfitPct is NetProfit divided by the net cost on entry.
	ProfitPct float64 `yaml:"profit_pct" json:"profit_pct" csv:"profit_pct"`
	// HoldingDays is the number of bars between entry and exit.
	HoldingDays int        `yaml:"holding_days" json:"holding_days" csv:"holding_days"`
	ExitReason  ExitReason `yaml:"exit_reason" json:"exit_reason" csv:"exit_reason"`
	EntryScore  float64    `yaml:"entry_score" json:"entry_score" csv:"entry_score"`
}

// Fees returns every cost paid over the round trip.
func (t Trade) Fees() float64 {
	return t.EntryFee + t.ExitFee + t.ExitTax
}

// IsWin reports whether the trade made money after costs.
func (t Trade) IsWin() bool {
	return t.NetProfit > 0
}

// EquityPoint is the account snapshot taken once per bar.
// Equity always equals Cash + PositionValue.
type EquityPoint struct {
	Date          time.Time `yaml:"date" json:"date" csv:"date"`
	Equity        float64   `yaml:"equity" json:"equity" csv:"equity"`
	Cash          float64   `yaml:"cash" json:"cash" csv:"cash"`
	PositionValue float64   `yaml:"position_value" json:"position_value" csv:"position_value"`
}

// NewEquityPoint builds a snapshot whose equity is the sum of its parts.
func NewEquityPoint(date time.Time, cash, positionValue float64) EquityPoint {
	return EquityPoint{
		Date:          date,
		Equity:        cash + positionValue,
		Cash:          cash,
		PositionValue: positionValue,
	}
}
