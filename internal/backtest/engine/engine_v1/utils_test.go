package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/mocks"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// UtilsTestSuite is a test suite for utils package
type UtilsTestSuite struct {
	suite.Suite
}

// TestUtilsSuite runs the test suite
func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestResultFolder() {
	tests := []struct {
		name          string
		configPath    string
		dataPath      string
		strategyID    string
		resultsFolder string
		startTime     optional.Option[time.Time]
		endTime       optional.Option[time.Time]
		expectedPath  string
	}{
		{
			name:          "Basic case without time range",
			configPath:    "/path/to/config.yaml",
			dataPath:      "/path/to/data.csv",
			strategyID:    "enhanced",
			resultsFolder: "/results",
			startTime:     optional.None[time.Time](),
			endTime:       optional.None[time.Time](),
			expectedPath:  "/results/enhanced/config/data",
		},
		{
			name:          "Case with time range",
			configPath:    "/path/to/config.yaml",
			dataPath:      "/path/to/data.csv",
			strategyID:    "enhanced",
			resultsFolder: "/results",
			startTime:     optional.Some(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
			endTime:       optional.Some(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
			expectedPath:  "/results/enhanced/config/20230101_20231231/data",
		},
		{
			name:          "Case with only start time",
			configPath:    "/path/to/config.yaml",
			dataPath:      "/path/to/data.csv",
			strategyID:    "enhanced",
			resultsFolder: "/results",
			startTime:     optional.Some(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
			endTime:       optional.None[time.Time](),
			expectedPath:  "/results/enhanced/config/20230101_all/data",
		},
		{
			name:          "Case with only end time",
			configPath:    "/path/to/config.yaml",
			dataPath:      "/path/to/data.csv",
			strategyID:    "enhanced",
			resultsFolder: "/results",
			startTime:     optional.None[time.Time](),
			endTime:       optional.Some(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
			expectedPath:  "/results/enhanced/config/all_20231231/data",
		},
		{
			name:          "Case with complex file names",
			configPath:    "/path/to/my.config.yaml",
			dataPath:      "/path/to/2330.TW.parquet",
			strategyID:    "precomputed",
			resultsFolder: "/results",
			startTime:     optional.None[time.Time](),
			endTime:       optional.None[time.Time](),
			expectedPath:  "/results/precomputed/my.config/2330.TW",
		},
		{
			name:          "Defaults without config file or strategy",
			configPath:    "",
			dataPath:      "/path/to/data.csv",
			strategyID:    "",
			resultsFolder: "/results",
			startTime:     optional.None[time.Time](),
			endTime:       optional.None[time.Time](),
			expectedPath:  "/results/unknown/default/data",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			cfg := DefaultConfig()
			cfg.StrategyID = tc.strategyID
			cfg.StartTime = tc.startTime
			cfg.EndTime = tc.endTime

			resultPath := ResultFolder(tc.resultsFolder, tc.configPath, tc.dataPath, cfg)

			suite.Equal(filepath.Clean(tc.expectedPath), filepath.Clean(resultPath), "Result folder path mismatch")
		})
	}
}

func (suite *UtilsTestSuite) TestLoadBars() {
	suite.Run("Loads every bar", func() {
		ctrl := gomock.NewController(suite.T())
		ds := mocks.NewMockDataSource(ctrl)
		bars := flatBars(5, 100, 30, 10)

		gomock.InOrder(
			ds.EXPECT().Initialize("data/2330.csv").Return(nil),
			ds.EXPECT().LoadBars(optional.None[time.Time](), optional.None[time.Time]()).Return(bars, nil),
		)

		loaded, err := LoadBars(nil, ds, "data/2330.csv")
		suite.Require().NoError(err)
		suite.Equal(bars, loaded)
	})

	suite.Run("Initialize failure", func() {
		ctrl := gomock.NewController(suite.T())
		ds := mocks.NewMockDataSource(ctrl)
		ds.EXPECT().Initialize(gomock.Any()).Return(errors.New(errors.ErrCodeMissingColumn, "missing close"))

		_, err := LoadBars(nil, ds, "data/2330.csv")
		suite.True(errors.HasCode(err, errors.ErrCodeMissingColumn))
	})

	suite.Run("No data source", func() {
		_, err := LoadBars(nil, nil, "data/2330.csv")
		suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoDatasource))
	})
}
