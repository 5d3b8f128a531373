package engine

import (
	"context"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Lifecycle callback types for comparison runs
// Callbacks with an error return abort the remaining runs if they return an error

// OnRunStartCallback is called before the parameter set at index is run.
type OnRunStartCallback func(index int, name string, total int) error

// OnRunEndCallback is called after the parameter set at index has run.
// report is nil when the run failed with err.
type OnRunEndCallback func(index int, name string, report *types.Report, err error)

// LifecycleCallbacks holds all lifecycle callback functions for a comparison.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart *OnRunStartCallback
	OnRunEnd   *OnRunEndCallback
}

// Engine runs a single backtest. Implementations hold no per-run state, so a
// single engine may serve concurrent runs.
type Engine interface {
	// Run simulates cfg over bars and returns the report.
	// The context is checked before the simulation starts.
	Run(ctx context.Context, bars []types.Bar, cfg types.RunConfig) (types.Report, error)
	// ScorerName returns the name of the scoring capability the engine uses.
	ScorerName() string
}
