package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/writer"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func compareAction(ctx context.Context, cmd *cli.Command) error {
	rankBy, err := types.ParseRankingMetric(cmd.String("rank"))
	if err != nil {
		return err
	}

	overrides := enginev1.DefaultParameterSets()
	if path := cmd.String("params"); path != "" {
		overrides, err = enginev1.LoadParameterSets(path)
		if err != nil {
			return err
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync() //nolint:errcheck

	eng, err := s.engine()
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(overrides)), "comparing")

	onStart := engine.OnRunStartCallback(func(_ int, name string, _ int) error {
		bar.Describe(fmt.Sprintf("Running %s on %s", name, filepath.Base(cmd.String("data"))))

		return nil
	})
	onEnd := engine.OnRunEndCallback(func(_ int, _ string, _ *types.Report, _ error) {
		_ = bar.Add(1)
	})

	runner := enginev1.NewComparisonRunner(s.log, eng, s.registry)
	result, runErr := runner.Compare(ctx, s.bars, s.cfg, overrides, enginev1.ComparisonOptions{
		RankBy:    rankBy,
		Callbacks: engine.LifecycleCallbacks{OnRunStart: &onStart, OnRunEnd: &onEnd},
	})
	_ = bar.Finish()

	fmt.Fprint(cmd.Root().Writer, renderComparison(result))

	if resultsFolder := cmd.String("results"); resultsFolder != "" && len(result.Results) > 0 {
		folder := enginev1.ResultFolder(resultsFolder, cmd.String("config"), cmd.String("data"), s.cfg)
		if _, err := writer.NewReportWriter(s.log, writer.OutputFormatParquet).WriteComparison(folder, result); err != nil {
			return err
		}
	}

	return runErr
}
