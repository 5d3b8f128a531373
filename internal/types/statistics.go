package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Results struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	FinalEquity    float64 `yaml:"final_equity" json:"final_equity"`
	// TotalReturn is (final equity - initial capital) / initial capital.
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
}

type Metrics struct {
	// Count of all trades.
	TotalTrades int `yaml:"total_trades" json:"total_trades"`
	// Count of trades with positive net profit.
	WinningTrades int `yaml:"winning_trades" json:"winning_trades"`
	// Count of trades with zero or negative net profit.
	LosingTrades int `yaml:"losing_trades" json:"losing_trades"`
	// Win rate. Zero when there are no trades, see WinRateDefined.
	WinRate      float64 `yaml:"win_rate" json:"win_rate"`
	AvgProfit    float64 `yaml:"avg_profit" json:"avg_profit"`
	AvgProfitPct float64 `yaml:"avg_profit_pct" json:"avg_profit_pct"`
	MaxProfit    float64 `yaml:"max_profit" json:"max_profit"`
	MaxLoss      float64 `yaml:"max_loss" json:"max_loss"`
	// Profit factor. +Inf when there are wins and no losses, 0 without wins.
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	SharpeRatio  float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// Maximum peak-to-trough decline of the equity curve as a fraction of the peak.
	MaxDrawdown    float64 `yaml:"max_drawdown" json:"max_drawdown"`
	AvgHoldingDays float64 `yaml:"avg_holding_days" json:"avg_holding_days"`
	TotalGains     float64 `yaml:"total_gains" json:"total_gains"`
	TotalLosses    float64 `yaml:"total_losses" json:"total_losses"`
	TotalFees      float64 `yaml:"total_fees" json:"total_fees"`
	// Number of trades closed for each exit reason.
	ExitReasons map[ExitReason]int `yaml:"exit_reasons" json:"exit_reasons"`
}

// WinRateDefined distinguishes "no trades" from "0% win rate".
func (m Metrics) WinRateDefined() bool {
	return m.TotalTrades > 0
}

// FormatWinRate renders the win rate as a percentage, or "n/a" without trades.
func (m Metrics) FormatWinRate() string {
	if !m.WinRateDefined() {
		return "n/a"
	}

	return fmt.Sprintf("%.2f%%", m.WinRate*100)
}

// Report is the complete, side-effect free output of a single backtest run.
type Report struct {
	Parameters  RunConfig     `yaml:"parameters" json:"parameters"`
	Results     Results       `yaml:"results" json:"results"`
	Metrics     Metrics       `yaml:"metrics" json:"metrics"`
	Trades      []Trade       `yaml:"trades" json:"trades"`
	EquityCurve []EquityPoint `yaml:"equity_curve" json:"equity_curve"`
	DataPeriod  DataPeriod    `yaml:"data_period" json:"data_period"`
}

// RunSummary is the persisted description of one run, written as stats.yaml.
type RunSummary struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp     time.Time  `yaml:"timestamp" json:"timestamp"`
	EngineVersion string     `yaml:"engine_version" json:"engine_version"`
	StrategyID    string     `yaml:"strategy_id" json:"strategy_id"`
	Parameters    RunConfig  `yaml:"parameters" json:"parameters"`
	Results       Results    `yaml:"results" json:"results"`
	Metrics       Metrics    `yaml:"metrics" json:"metrics"`
	DataPeriod    DataPeriod `yaml:"data_period" json:"data_period"`
	// DataPath is the path to the bar file used for this backtest.
	DataPath string `yaml:"data_path" json:"data_path"`
	// TradesFilePath is the path to the exported trade log.
	TradesFilePath string `yaml:"trades_file_path" json:"trades_file_path"`
	// EquityCurveFilePath is the path to the exported equity curve.
	EquityCurveFilePath string `yaml:"equity_curve_file_path" json:"equity_curve_file_path"`
}

func WriteRunSummary(path string, summary RunSummary) error {
	return writeYAML(path, summary, "run summary")
}

func writeYAML(path string, value any, what string) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s to YAML: %w", what, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s to file: %w", what, err)
	}

	return nil
}
