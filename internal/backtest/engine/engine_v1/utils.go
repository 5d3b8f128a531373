package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

const defaultConfigFolder = "default"

// ResultFolder returns <results>/<strategy>/<config>[/<start>_<end>]/<data>.
func ResultFolder(resultsFolder, configPath, dataPath string, cfg types.RunConfig) string {
	strategyID := cfg.StrategyID
	if strategyID == "" {
		strategyID = "unknown"
	}

	configName := defaultConfigFolder
	if configPath != "" {
		configName = trimExt(configPath)
	}

	// Create base folders for strategy and config
	configFolder := filepath.Join(resultsFolder, strategyID, configName)

	// Create data folder with time range if specified
	dataFolder := configFolder

	if cfg.StartTime.IsSome() || cfg.EndTime.IsSome() {
		startTimeStr := "all"
		endTimeStr := "all"

		if cfg.StartTime.IsSome() {
			startTimeStr = cfg.StartTime.Unwrap().Format("20060102")
		}

		if cfg.EndTime.IsSome() {
			endTimeStr = cfg.EndTime.Unwrap().Format("20060102")
		}

		dataFolder = filepath.Join(configFolder, fmt.Sprintf("%s_%s", startTimeStr, endTimeStr))
	}

	// Add data file name as the final folder
	return filepath.Join(dataFolder, trimExt(dataPath))
}

func trimExt(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadBars attaches dataPath to ds and reads every bar it holds. The run
// window is applied later by the engine.
func LoadBars(log *logger.Logger, ds datasource.DataSource, dataPath string) ([]types.Bar, error) {
	if ds == nil {
		return nil, errors.New(errors.ErrCodeBacktestNoDatasource, "no data source configured")
	}

	if err := ds.Initialize(dataPath); err != nil {
		return nil, err
	}

	bars, err := ds.LoadBars(optional.None[time.Time](), optional.None[time.Time]())
	if err != nil {
		return nil, err
	}

	period := types.NewDataPeriod(bars)
	logger.OrNop(log).Info("Loaded bars",
		zap.String("path", dataPath),
		zap.Int("bars", len(bars)),
		zap.String("start", period.Start.Format(time.DateOnly)),
		zap.String("end", period.End.Format(time.DateOnly)),
	)

	return bars, nil
}
