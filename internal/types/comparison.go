package types

import (
	"fmt"
	"math"
	"sort"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RankingMetric selects the metric used to order comparison results.
type RankingMetric string

const (
	RankBySharpeRatio  RankingMetric = "sharpe_ratio"
	RankByTotalReturn  RankingMetric = "total_return"
	RankByWinRate      RankingMetric = "win_rate"
	RankByProfitFactor RankingMetric = "profit_factor"
	// RankByMaxDrawdown ranks ascending: the smallest drawdown wins.
	RankByMaxDrawdown RankingMetric = "max_drawdown"
)

var rankingMetrics = []RankingMetric{
	RankBySharpeRatio,
	RankByTotalReturn,
	RankByWinRate,
	RankByProfitFactor,
	RankByMaxDrawdown,
}

// ParseRankingMetric resolves a metric name. Empty selects the Sharpe ratio.
func ParseRankingMetric(name string) (RankingMetric, error) {
	if name == "" {
		return RankBySharpeRatio, nil
	}

	for _, m := range rankingMetrics {
		if string(m) == name {
			return m, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidRankingMetric, "unknown ranking metric %q", name)
}

// Value extracts the ranking value from a report.
func (m RankingMetric) Value(report Report) float64 {
	switch m {
	case RankByTotalReturn:
		return report.Results.TotalReturn
	case RankByWinRate:
		return report.Metrics.WinRate
	case RankByProfitFactor:
		return report.Metrics.ProfitFactor
	case RankByMaxDrawdown:
		return report.Metrics.MaxDrawdown
	default:
		return report.Metrics.SharpeRatio
	}
}

// Better reports whether a ranks strictly ahead of b.
func (m RankingMetric) Better(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}

	if m == RankByMaxDrawdown {
		return a < b
	}

	return a > b
}

// ParameterOverride is a named set of changes applied on top of a base config.
// Unset fields keep the base value.
type ParameterOverride struct {
	Name               string                   `yaml:"name" json:"name"`
	StrategyID         optional.Option[string]  `yaml:"strategy_id" json:"strategy_id"`
	PositionSize       optional.Option[float64] `yaml:"position_size" json:"position_size"`
	StopLoss           optional.Option[float64] `yaml:"stop_loss" json:"stop_loss"`
	TakeProfit         optional.Option[float64] `yaml:"take_profit" json:"take_profit"`
	RebalanceDays      optional.Option[int]     `yaml:"rebalance_days" json:"rebalance_days"`
	EntryScore         optional.Option[float64] `yaml:"entry_score" json:"entry_score"`
	EntrySubScore      optional.Option[float64] `yaml:"entry_sub_score" json:"entry_sub_score"`
	DeteriorationScore optional.Option[float64] `yaml:"deterioration_score" json:"deterioration_score"`
	CommissionRate     optional.Option[float64] `yaml:"commission_rate" json:"commission_rate"`
	TaxRate            optional.Option[float64] `yaml:"tax_rate" json:"tax_rate"`
	Slippage           optional.Option[float64] `yaml:"slippage" json:"slippage"`
}

// Apply returns a copy of base with the override's set fields replaced.
func (o ParameterOverride) Apply(base RunConfig) RunConfig {
	cfg := base

	applyOption(&cfg.StrategyID, o.StrategyID)
	applyOption(&cfg.PositionSize, o.PositionSize)
	applyOption(&cfg.StopLoss, o.StopLoss)
	applyOption(&cfg.TakeProfit, o.TakeProfit)
	applyOption(&cfg.RebalanceDays, o.RebalanceDays)
	applyOption(&cfg.EntryScore, o.EntryScore)
	applyOption(&cfg.EntrySubScore, o.EntrySubScore)
	applyOption(&cfg.DeteriorationScore, o.DeteriorationScore)
	applyOption(&cfg.CommissionRate, o.CommissionRate)
	applyOption(&cfg.TaxRate, o.TaxRate)
	applyOption(&cfg.Slippage, o.Slippage)

	return cfg
}

// Label returns the override name, or a description built from its risk fields.
func (o ParameterOverride) Label() string {
	if o.Name != "" {
		return o.Name
	}

	return fmt.Sprintf("size=%v sl=%v tp=%v", valueOr(o.PositionSize), valueOr(o.StopLoss), valueOr(o.TakeProfit))
}

func valueOr[T any](opt optional.Option[T]) any {
	if opt.IsNone() {
		return "-"
	}

	return opt.Unwrap()
}

func applyOption[T any](dst *T, opt optional.Option[T]) {
	if opt.IsSome() {
		*dst = opt.Unwrap()
	}
}

func fromPtr[T any](v *T) optional.Option[T] {
	if v == nil {
		return optional.None[T]()
	}

	return optional.Some(*v)
}

type parameterOverrideYAML struct {
	Name               string   `yaml:"name"`
	StrategyID         *string  `yaml:"strategy_id"`
	PositionSize       *float64 `yaml:"position_size"`
	StopLoss           *float64 `yaml:"stop_loss"`
	TakeProfit         *float64 `yaml:"take_profit"`
	RebalanceDays      *int     `yaml:"rebalance_days"`
	EntryScore         *float64 `yaml:"entry_score"`
	EntrySubScore      *float64 `yaml:"entry_sub_score"`
	DeteriorationScore *float64 `yaml:"deterioration_score"`
	CommissionRate     *float64 `yaml:"commission_rate"`
	TaxRate            *float64 `yaml:"tax_rate"`
	Slippage           *float64 `yaml:"slippage"`
}

// UnmarshalYAML maps absent keys to None.
func (o *ParameterOverride) UnmarshalYAML(value *yaml.Node) error {
	var raw parameterOverrideYAML
	if err := decodeKnown(value, &raw); err != nil {
		return err
	}

	*o = ParameterOverride{
		Name:               raw.Name,
		StrategyID:         fromPtr(raw.StrategyID),
		PositionSize:       fromPtr(raw.PositionSize),
		StopLoss:           fromPtr(raw.StopLoss),
		TakeProfit:         fromPtr(raw.TakeProfit),
		RebalanceDays:      fromPtr(raw.RebalanceDays),
		EntryScore:         fromPtr(raw.EntryScore),
		EntrySubScore:      fromPtr(raw.EntrySubScore),
		DeteriorationScore: fromPtr(raw.DeteriorationScore),
		CommissionRate:     fromPtr(raw.CommissionRate),
		TaxRate:            fromPtr(raw.TaxRate),
		Slippage:           fromPtr(raw.Slippage),
	}

	return nil
}

// ComparisonEntry is the outcome of one parameter set in a comparison.
type ComparisonEntry struct {
	// Index is the position of the parameter set in the input list.
	Index        int       `yaml:"index" json:"index"`
	Name         string    `yaml:"name" json:"name"`
	Parameters   RunConfig `yaml:"parameters" json:"parameters"`
	TotalReturn  float64   `yaml:"total_return" json:"total_return"`
	WinRate      float64   `yaml:"win_rate" json:"win_rate"`
	SharpeRatio  float64   `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdown  float64   `yaml:"max_drawdown" json:"max_drawdown"`
	TotalTrades  int       `yaml:"total_trades" json:"total_trades"`
	ProfitFactor float64   `yaml:"profit_factor" json:"profit_factor"`
	// Error is set when the run for this parameter set failed.
	Error  string  `yaml:"error,omitempty" json:"error,omitempty"`
	Report *Report `yaml:"-" json:"-"`
}

// NewComparisonEntry summarises a successful run.
func NewComparisonEntry(index int, name string, cfg RunConfig, report Report) ComparisonEntry {
	return ComparisonEntry{
		Index:        index,
		Name:         name,
		Parameters:   cfg,
		TotalReturn:  report.Results.TotalReturn,
		WinRate:      report.Metrics.WinRate,
		SharpeRatio:  report.Metrics.SharpeRatio,
		MaxDrawdown:  report.Metrics.MaxDrawdown,
		TotalTrades:  report.Metrics.TotalTrades,
		ProfitFactor: report.Metrics.ProfitFactor,
		Error:        "",
		Report:       &report,
	}
}

// NewFailedComparisonEntry records a parameter set whose run returned err.
func NewFailedComparisonEntry(index int, name string, cfg RunConfig, err error) ComparisonEntry {
	return ComparisonEntry{
		Index:      index,
		Name:       name,
		Parameters: cfg,
		Error:      err.Error(),
	}
}

// Failed reports whether the run produced no report.
func (e ComparisonEntry) Failed() bool {
	return e.Report == nil
}

// ComparisonResult holds every run of a comparison ordered best first.
type ComparisonResult struct {
	RankedBy RankingMetric     `yaml:"ranked_by" json:"ranked_by"`
	Results  []ComparisonEntry `yaml:"results" json:"results"`
	// BestParameters is the config of the top ranked successful run.
	BestParameters *RunConfig `yaml:"best_parameters,omitempty" json:"best_parameters,omitempty"`
}

// Best returns the top ranked successful entry.
func (r ComparisonResult) Best() (ComparisonEntry, bool) {
	for _, entry := range r.Results {
		if !entry.Failed() {
			return entry, true
		}
	}

	return ComparisonEntry{}, false
}

// Rank orders results best first and updates BestParameters. Ties keep their
// input order and failed entries are placed last.
func (r *ComparisonResult) Rank() {
	sort.SliceStable(r.Results, func(i, j int) bool {
		a, b := r.Results[i], r.Results[j]
		if a.Failed() || b.Failed() {
			return !a.Failed() && b.Failed()
		}

		return r.RankedBy.Better(r.RankedBy.Value(*a.Report), r.RankedBy.Value(*b.Report))
	})

	r.BestParameters = nil
	if best, ok := r.Best(); ok {
		params := best.Parameters
		r.BestParameters = &params
	}
}

// WriteComparisonResult persists a ranked comparison as YAML.
func WriteComparisonResult(path string, result ComparisonResult) error {
	return writeYAML(path, result, "comparison result")
}
