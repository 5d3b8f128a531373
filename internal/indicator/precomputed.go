package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

const PrecomputedScorerName = "precomputed"

// PrecomputedScorer passes through the scores already attached to each bar.
type PrecomputedScorer struct{}

// NewPrecomputedScorer creates a scorer that reads Bar.Score and Bar.SubScore.
func NewPrecomputedScorer() Scorer {
	return &PrecomputedScorer{}
}

func (p *PrecomputedScorer) Name() string {
	return PrecomputedScorerName
}

func (p *PrecomputedScorer) Score(bars []types.Bar) ([]types.Score, error) {
	scores := make([]types.Score, len(bars))
	for i, bar := range bars {
		scores[i] = types.Score{
			Total: bar.Score,
			Sub:   bar.SubScore,
			Valid: true,
		}
	}

	return scores, nil
}
