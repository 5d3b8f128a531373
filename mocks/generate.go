package mocks

//go:generate mockgen -destination=./mock_scorer.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/indicator Scorer
//go:generate mockgen -destination=./mock_scorer_registry.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/indicator ScorerRegistry
//go:generate mockgen -destination=./mock_engine.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/backtest/engine Engine
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource DataSource
