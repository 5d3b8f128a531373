package main

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/mocks"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type BacktestCmdTestSuite struct {
	suite.Suite
	tempDir  string
	dataPath string
}

func TestBacktestCmdSuite(t *testing.T) {
	suite.Run(t, new(BacktestCmdTestSuite))
}

func (suite *BacktestCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.dataPath = filepath.Join(suite.tempDir, "2330.csv")

	var sb strings.Builder

	sb.WriteString("date,symbol,open,high,low,close,volume,score,sub_score\n")

	for _, bar := range mocks.GenerateYear("2330") {
		fmt.Fprintf(&sb, "%s,%s,%f,%f,%f,%f,%f,%f,%f\n",
			bar.Date.Format(time.DateOnly), bar.Symbol, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, bar.Score, bar.SubScore)
	}

	suite.Require().NoError(os.WriteFile(suite.dataPath, []byte(sb.String()), 0644))
}

func (suite *BacktestCmdTestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer

	app := newApp()
	app.Writer = &out

	err := app.Run(context.Background(), append([]string{"backtest"}, args...))

	return out.String(), err
}

func (suite *BacktestCmdTestSuite) findFile(root, name string) string {
	var found string

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && d.Name() == name {
			found = path
		}

		return nil
	})

	return found
}

func (suite *BacktestCmdTestSuite) TestRun() {
	results := filepath.Join(suite.tempDir, "results")

	out, err := suite.run("run", "--data", suite.dataPath, "--results", results, "--format", "csv")
	suite.Require().NoError(err)
	suite.Contains(out, "Backtest results")
	suite.Contains(out, "Total return")

	suite.NotEmpty(suite.findFile(results, "stats.yaml"))
	suite.NotEmpty(suite.findFile(results, "trades.csv"))
	suite.NotEmpty(suite.findFile(results, "equity_curve.csv"))
}

func (suite *BacktestCmdTestSuite) TestRunWithConfig() {
	configPath := filepath.Join(suite.tempDir, "tight.yaml")
	suite.Require().NoError(os.WriteFile(configPath, []byte("stop_loss: -0.03\ntake_profit: 0.05\n"), 0644))

	out, err := suite.run("run", "--data", suite.dataPath, "--config", configPath)
	suite.Require().NoError(err)
	suite.Contains(out, "strategy precomputed")
}

func (suite *BacktestCmdTestSuite) TestRunRejectsUnknownFormat() {
	_, err := suite.run("run", "--data", suite.dataPath, "--format", "xlsx")
	suite.Error(err)
}

func (suite *BacktestCmdTestSuite) TestRunUnknownStrategy() {
	_, err := suite.run("run", "--data", suite.dataPath, "--strategy", "missing")
	suite.Error(err)
}

func (suite *BacktestCmdTestSuite) TestCompare() {
	results := filepath.Join(suite.tempDir, "results")

	out, err := suite.run("compare", "--data", suite.dataPath, "--results", results, "--rank", "total_return")
	suite.Require().NoError(err)
	suite.Contains(out, "Ranked by total_return")
	suite.Contains(out, "conservative")
	suite.Contains(out, "balanced")
	suite.Contains(out, "aggressive")

	path := suite.findFile(results, "comparison.yaml")
	suite.Require().NotEmpty(path)

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(content), "best_parameters:")
}

func (suite *BacktestCmdTestSuite) TestCompareWithParamsFile() {
	params := filepath.Join(suite.tempDir, "params.yaml")
	suite.Require().NoError(os.WriteFile(params, []byte("- name: small\n  position_size: 0.1\n- name: large\n  position_size: 0.9\n"), 0644))

	out, err := suite.run("compare", "--data", suite.dataPath, "--params", params)
	suite.Require().NoError(err)
	suite.Contains(out, "small")
	suite.Contains(out, "large")
}

func (suite *BacktestCmdTestSuite) TestCompareRejectsUnknownMetric() {
	_, err := suite.run("compare", "--data", suite.dataPath, "--rank", "alpha")
	suite.Error(err)
}

func (suite *BacktestCmdTestSuite) TestSchema() {
	out, err := suite.run("schema")
	suite.Require().NoError(err)
	suite.Contains(out, `"initial_capital"`)
}

func (suite *BacktestCmdTestSuite) TestRenderComparisonFailedEntry() {
	result := types.ComparisonResult{
		RankedBy: types.RankBySharpeRatio,
		Results: []types.ComparisonEntry{
			types.NewFailedComparisonEntry(0, "broken", types.RunConfig{}, fmt.Errorf("invalid position size")),
		},
	}

	out := renderComparison(result)
	suite.Contains(out, "broken")
	suite.Contains(out, "invalid position size")
	suite.NotContains(out, "Best:")
}

func (suite *BacktestCmdTestSuite) TestFormatRatio() {
	suite.Equal("1.50", formatRatio(1.5))
	suite.Equal("inf", formatRatio(math.Inf(1)))
	suite.Equal("12.34%", formatPercent(0.1234))
}

func (suite *BacktestCmdTestSuite) TestExitCode() {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", errors.New(errors.ErrCodeInvalidStopLoss, "stop loss"), 2},
		{"data", errors.New(errors.ErrCodeMissingColumn, "close"), 3},
		{"insufficient bars", errors.NewInsufficientDataError(200, 20, "2330", "too few bars"), 3},
		{"cancelled", errors.Wrap(errors.ErrCodeComparisonCancelled, "comparison cancelled", context.Canceled), 130},
		{"other", fmt.Errorf("boom"), 1},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.code, exitCode(tc.err))
		})
	}
}
