package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Scorer computes a technical score for every bar of a series.
//
// Implementations must be causal: the score at index i may only depend on
// bars[0..i]. The returned slice always has the same length as bars.
type Scorer interface {
	// Name returns the strategy identifier of the scorer
	Name() string
	// Score returns one score per bar. Scores are Valid=false during warm-up.
	Score(bars []types.Bar) ([]types.Score, error)
}
