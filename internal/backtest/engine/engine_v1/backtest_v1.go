package engine

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/stats"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// MinimumRequiredBars is the fewest bars a run accepts, enough for every
// indicator of the reference scorer to stabilise.
const MinimumRequiredBars = 200

// BacktestEngineV1 simulates a single long-only position over daily bars.
// It only holds immutable dependencies; all run state lives inside Run.
type BacktestEngineV1 struct {
	log    *logger.Logger
	scorer indicator.Scorer
}

func NewBacktestEngineV1(log *logger.Logger, scorer indicator.Scorer) engine.Engine {
	return &BacktestEngineV1{
		log:    logger.OrNop(log),
		scorer: scorer,
	}
}

func (b *BacktestEngineV1) ScorerName() string {
	if b.scorer == nil {
		return ""
	}

	return b.scorer.Name()
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, bars []types.Bar, cfg types.RunConfig) (types.Report, error) {
	if err := ctx.Err(); err != nil {
		return types.Report{}, err
	}

	if b.scorer == nil {
		return types.Report{}, errors.New(errors.ErrCodeBacktestNoScoringFunc, "no scoring function configured")
	}

	if err := cfg.Validate(); err != nil {
		return types.Report{}, err
	}

	if err := version.CheckConfig(cfg.EngineVersion); err != nil {
		return types.Report{}, err
	}

	bars = filterWindow(bars, cfg)

	if len(bars) < MinimumRequiredBars {
		return types.Report{}, errors.NewInsufficientDataErrorf(MinimumRequiredBars, len(bars), symbolOf(bars),
			"backtest requires at least %d bars, got %d", MinimumRequiredBars, len(bars))
	}

	if err := checkOrdered(bars); err != nil {
		return types.Report{}, err
	}

	scores, err := b.score(bars)
	if err != nil {
		return types.Report{}, err
	}

	machine := NewPositionStateMachine(cfg)
	trades := make([]types.Trade, 0)
	curve := make([]types.EquityPoint, 0, len(bars))

	for i, bar := range bars {
		last := i == len(bars)-1

		transition := machine.Step(i, bar, scores[i], last)
		switch transition.Kind {
		case TransitionBuy:
			b.log.Debug("Position opened",
				zap.String("date", bar.Date.Format(time.DateOnly)),
				zap.Float64("price", transition.Position.EntryPrice),
				zap.Int64("shares", transition.Position.Shares),
				zap.Float64("score", transition.Position.EntryScore.Total),
			)
		case TransitionSell:
			trades = append(trades, *transition.Trade)
			b.log.Debug("Position closed",
				zap.String("date", bar.Date.Format(time.DateOnly)),
				zap.Float64("price", transition.Trade.ExitPrice),
				zap.Int64("shares", transition.Trade.Shares),
				zap.String("reason", string(transition.Trade.ExitReason)),
				zap.Float64("net_profit", transition.Trade.NetProfit),
			)
		case TransitionNone:
		}

		curve = append(curve, machine.Snapshot(bar))
	}

	finalEquity := curve[len(curve)-1].Equity
	results := types.Results{
		InitialCapital: cfg.InitialCapital,
		FinalEquity:    finalEquity,
		TotalReturn:    (finalEquity - cfg.InitialCapital) / cfg.InitialCapital,
	}

	report := types.Report{
		Parameters:  cfg,
		Results:     results,
		Metrics:     stats.Calculate(trades, curve),
		Trades:      trades,
		EquityCurve: curve,
		DataPeriod:  types.NewDataPeriod(bars),
	}

	b.log.Info("Backtest completed",
		zap.String("scorer", b.scorer.Name()),
		zap.Int("bars", len(bars)),
		zap.Int("trades", report.Metrics.TotalTrades),
		zap.Float64("total_return", results.TotalReturn),
		zap.Float64("final_equity", results.FinalEquity),
	)

	return report, nil
}

// score runs the scorer once over the whole series. A scorer without enough
// history yields no valid scores instead of failing the run.
func (b *BacktestEngineV1) score(bars []types.Bar) ([]types.Score, error) {
	scores, err := b.scorer.Score(bars)
	if err != nil {
		if errors.IsInsufficientDataError(err) {
			b.log.Warn("Scorer has insufficient data, no entries will be taken",
				zap.String("scorer", b.scorer.Name()),
				zap.Error(err),
			)

			return make([]types.Score, len(bars)), nil
		}

		return nil, errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "scorer %s failed", b.scorer.Name())
	}

	if len(scores) != len(bars) {
		return nil, errors.Newf(errors.ErrCodeScoreLengthMismatch,
			"scorer %s returned %d scores for %d bars", b.scorer.Name(), len(scores), len(bars))
	}

	return scores, nil
}

func filterWindow(bars []types.Bar, cfg types.RunConfig) []types.Bar {
	if cfg.StartTime.IsNone() && cfg.EndTime.IsNone() {
		return bars
	}

	filtered := make([]types.Bar, 0, len(bars))

	for _, bar := range bars {
		if cfg.InWindow(bar.Date) {
			filtered = append(filtered, bar)
		}
	}

	return filtered
}

func checkOrdered(bars []types.Bar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return errors.Newf(errors.ErrCodeUnorderedBars,
				"bars must be strictly ascending by date: %s at index %d follows %s",
				bars[i].Date.Format(time.DateOnly), i, bars[i-1].Date.Format(time.DateOnly))
		}
	}

	return nil
}

func symbolOf(bars []types.Bar) string {
	if len(bars) == 0 {
		return ""
	}

	return bars[0].Symbol
}
