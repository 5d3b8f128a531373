package engine

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// DefaultParameterSets returns the conservative, balanced and aggressive
// reference risk profiles.
func DefaultParameterSets() []types.ParameterOverride {
	return []types.ParameterOverride{
		riskProfile("conservative", 0.2, -0.05, 0.10),
		riskProfile("balanced", 0.3, -0.08, 0.15),
		riskProfile("aggressive", 0.5, -0.10, 0.20),
	}
}

func riskProfile(name string, size, stopLoss, takeProfit float64) types.ParameterOverride {
	return types.ParameterOverride{
		Name:               name,
		StrategyID:         optional.None[string](),
		PositionSize:       optional.Some(size),
		StopLoss:           optional.Some(stopLoss),
		TakeProfit:         optional.Some(takeProfit),
		RebalanceDays:      optional.None[int](),
		EntryScore:         optional.None[float64](),
		EntrySubScore:      optional.None[float64](),
		DeteriorationScore: optional.None[float64](),
		CommissionRate:     optional.None[float64](),
		TaxRate:            optional.None[float64](),
		Slippage:           optional.None[float64](),
	}
}

// ComparisonOptions controls how a comparison is ranked and reported.
type ComparisonOptions struct {
	RankBy    types.RankingMetric
	Callbacks engine.LifecycleCallbacks
}

// ComparisonRunner runs the same bars under several parameter sets.
type ComparisonRunner struct {
	log      *logger.Logger
	engine   engine.Engine
	registry indicator.ScorerRegistry
}

// NewComparisonRunner creates a runner that uses defaultEngine for every set
// whose strategy id matches it, and resolves other strategy ids through
// registry. registry may be nil.
func NewComparisonRunner(log *logger.Logger, defaultEngine engine.Engine, registry indicator.ScorerRegistry) *ComparisonRunner {
	return &ComparisonRunner{
		log:      logger.OrNop(log),
		engine:   defaultEngine,
		registry: registry,
	}
}

// Compare runs every override in order and ranks the results. A failing set is
// recorded on its entry without stopping the others. When ctx is cancelled no
// further sets are started and the partial, ranked result is returned with the
// context error.
func (r *ComparisonRunner) Compare(
	ctx context.Context,
	bars []types.Bar,
	base types.RunConfig,
	overrides []types.ParameterOverride,
	opts ComparisonOptions,
) (types.ComparisonResult, error) {
	rankBy := opts.RankBy
	if rankBy == "" {
		rankBy = types.RankBySharpeRatio
	}

	result := types.ComparisonResult{
		RankedBy:       rankBy,
		Results:        make([]types.ComparisonEntry, 0, len(overrides)),
		BestParameters: nil,
	}

	if len(overrides) == 0 {
		return result, errors.New(errors.ErrCodeNoParameterSets, "no parameter sets to compare")
	}

	for i, override := range overrides {
		if err := ctx.Err(); err != nil {
			r.log.Warn("Comparison cancelled",
				zap.Int("completed", i),
				zap.Int("total", len(overrides)),
			)
			result.Rank()

			return result, errors.Wrap(errors.ErrCodeComparisonCancelled, "comparison cancelled", err)
		}

		name := override.Label()
		cfg := override.Apply(base)

		if opts.Callbacks.OnRunStart != nil {
			if err := (*opts.Callbacks.OnRunStart)(i, name, len(overrides)); err != nil {
				result.Rank()

				return result, err
			}
		}

		setLog := r.log.With(zap.String("parameter_set", name), zap.Int("index", i))

		report, err := r.runOne(ctx, bars, cfg)
		if err != nil {
			setLog.Warn("Parameter set failed", zap.Error(err))
			result.Results = append(result.Results, types.NewFailedComparisonEntry(i, name, cfg, err))
		} else {
			setLog.Info("Parameter set completed",
				zap.Float64("total_return", report.Results.TotalReturn),
				zap.Float64("sharpe_ratio", report.Metrics.SharpeRatio),
				zap.Int("trades", report.Metrics.TotalTrades),
			)
			result.Results = append(result.Results, types.NewComparisonEntry(i, name, cfg, report))
		}

		if opts.Callbacks.OnRunEnd != nil {
			var reportPtr *types.Report
			if err == nil {
				reportPtr = &report
			}

			(*opts.Callbacks.OnRunEnd)(i, name, reportPtr, err)
		}
	}

	result.Rank()

	return result, nil
}

func (r *ComparisonRunner) runOne(ctx context.Context, bars []types.Bar, cfg types.RunConfig) (types.Report, error) {
	runEngine, err := r.engineFor(cfg.StrategyID)
	if err != nil {
		return types.Report{}, err
	}

	return runEngine.Run(ctx, bars, cfg)
}

func (r *ComparisonRunner) engineFor(strategyID string) (engine.Engine, error) {
	if r.engine != nil && (strategyID == "" || strategyID == r.engine.ScorerName()) {
		return r.engine, nil
	}

	if r.registry == nil {
		if r.engine != nil {
			return nil, errors.Newf(errors.ErrCodeStrategyNotFound,
				"strategy %s is not available: engine uses %s and no scorer registry is configured",
				strategyID, r.engine.ScorerName())
		}

		return nil, errors.New(errors.ErrCodeBacktestNoScoringFunc, "no engine or scorer registry configured")
	}

	scorer, err := r.registry.GetScorer(strategyID)
	if err != nil {
		return nil, err
	}

	return NewBacktestEngineV1(r.log, scorer), nil
}
