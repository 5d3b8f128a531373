package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/writer"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	if cmd.Bool("verbose") {
		return logger.NewLoggerWithLevel(zapcore.DebugLevel)
	}

	return logger.NewLogger()
}

// session holds everything a command needs once flags are resolved.
type session struct {
	log      *logger.Logger
	cfg      types.RunConfig
	registry indicator.ScorerRegistry
	bars     []types.Bar
}

func newSession(cmd *cli.Command) (*session, error) {
	log, err := newLogger(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, err := enginev1.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if strategy := cmd.String("strategy"); strategy != "" {
		cfg.StrategyID = strategy
	}

	ds, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	bars, err := enginev1.LoadBars(log, ds, cmd.String("data"))
	if err != nil {
		return nil, err
	}

	return &session{
		log:      log,
		cfg:      cfg,
		registry: indicator.NewDefaultScorerRegistry(),
		bars:     bars,
	}, nil
}

func (s *session) engine() (engine.Engine, error) {
	scorer, err := s.registry.GetScorer(s.cfg.StrategyID)
	if err != nil {
		return nil, err
	}

	return enginev1.NewBacktestEngineV1(s.log, scorer), nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	format, err := writer.ParseOutputFormat(cmd.String("format"))
	if err != nil {
		return err
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

	report, err := eng.Run(ctx, s.bars, s.cfg)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.Root().Writer, renderReport(report))

	resultsFolder := cmd.String("results")
	if resultsFolder == "" {
		return nil
	}

	folder := enginev1.ResultFolder(resultsFolder, cmd.String("config"), cmd.String("data"), s.cfg)

	summary, err := writer.NewReportWriter(s.log, format).Write(folder, report, writer.RunMetadata{
		StrategyID: s.cfg.StrategyID,
		DataPath:   cmd.String("data"),
	})
	if err != nil {
		return err
	}

	s.log.Info("Run saved", zap.String("id", summary.ID), zap.String("folder", folder))

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := enginev1.GenerateConfigSchemaJSON()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}
