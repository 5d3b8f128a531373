package types

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
	tempDir string
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "statistics_test")
	suite.NoError(err)
	suite.tempDir = tempDir
}

func (suite *StatisticsTestSuite) TearDownTest() {
	os.RemoveAll(suite.tempDir)
}

func (suite *StatisticsTestSuite) TestWriteRunSummary() {
	summary := RunSummary{
		ID:            "run-1",
		Timestamp:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		EngineVersion: "v1.0.0",
		StrategyID:    "enhanced",
		Parameters: RunConfig{
			InitialCapital: 1_000_000,
			PositionSize:   0.3,
			StopLoss:       -0.08,
			TakeProfit:     0.15,
			RebalanceDays:  5,
			LotSize:        1000,
		},
		Results: Results{
			InitialCapital: 1_000_000,
			FinalEquity:    1_100_000,
			TotalReturn:    0.1,
		},
		Metrics: Metrics{
			TotalTrades:   10,
			WinningTrades: 6,
			LosingTrades:  4,
			WinRate:       0.6,
			ProfitFactor:  math.Inf(1),
			MaxDrawdown:   0.12,
			ExitReasons: map[ExitReason]int{
				ExitReasonTakeProfit: 6,
				ExitReasonStopLoss:   4,
			},
		},
		DataPath: "/data/2330.csv",
	}

	filePath := filepath.Join(suite.tempDir, "stats.yaml")
	err := WriteRunSummary(filePath, summary)
	suite.NoError(err)

	data, err := os.ReadFile(filePath)
	suite.NoError(err)

	var readSummary RunSummary
	err = yaml.Unmarshal(data, &readSummary)
	suite.NoError(err)

	suite.Equal(summary.ID, readSummary.ID)
	suite.True(summary.Timestamp.Equal(readSummary.Timestamp))
	suite.Equal(summary.Results, readSummary.Results)
	suite.Equal(summary.Metrics.TotalTrades, readSummary.Metrics.TotalTrades)
	suite.True(math.IsInf(readSummary.Metrics.ProfitFactor, 1))
	suite.Equal(6, readSummary.Metrics.ExitReasons[ExitReasonTakeProfit])
	suite.Equal(summary.Parameters.StopLoss, readSummary.Parameters.StopLoss)
	suite.Equal(int64(1000), readSummary.Parameters.LotSize)
	suite.True(readSummary.Parameters.StartTime.IsNone())
}

func (suite *StatisticsTestSuite) TestWriteRunSummaryInvalidPath() {
	err := WriteRunSummary(filepath.Join(suite.tempDir, "missing", "stats.yaml"), RunSummary{})
	suite.Error(err)
	suite.Contains(err.Error(), "failed to write run summary")
}

func (suite *StatisticsTestSuite) TestWinRateDefined() {
	tests := []struct {
		name     string
		metrics  Metrics
		defined  bool
		expected string
	}{
		{
			name:     "No trades",
			metrics:  Metrics{},
			defined:  false,
			expected: "n/a",
		},
		{
			name:     "All losing trades",
			metrics:  Metrics{TotalTrades: 3, LosingTrades: 3, WinRate: 0},
			defined:  true,
			expected: "0.00%",
		},
		{
			name:     "Mixed trades",
			metrics:  Metrics{TotalTrades: 4, WinningTrades: 1, LosingTrades: 3, WinRate: 0.25},
			defined:  true,
			expected: "25.00%",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.defined, tc.metrics.WinRateDefined())
			suite.Equal(tc.expected, tc.metrics.FormatWinRate())
		})
	}
}
