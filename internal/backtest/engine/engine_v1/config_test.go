package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaultConfig() {
	cfg := DefaultConfig()

	suite.NoError(cfg.Validate())
	suite.Equal(1_000_000.0, cfg.InitialCapital)
	suite.Equal(0.001425, cfg.CommissionRate)
	suite.Equal(0.003, cfg.TaxRate)
	suite.Equal(0.001, cfg.Slippage)
	suite.Equal(0.3, cfg.PositionSize)
	suite.Equal(-0.08, cfg.StopLoss)
	suite.Equal(0.15, cfg.TakeProfit)
	suite.Equal(5, cfg.RebalanceDays)
	suite.Equal(int64(1000), cfg.LotSize)
	suite.Equal(25.0, cfg.EntryScore)
	suite.Equal(8.0, cfg.EntrySubScore)
	suite.Equal(20.0, cfg.DeteriorationScore)
	suite.Equal(indicator.PrecomputedScorerName, cfg.StrategyID)
	suite.True(cfg.StartTime.IsNone())
	suite.True(cfg.EndTime.IsNone())
}

func (suite *ConfigTestSuite) TestParseConfigMergesOverDefaults() {
	cfg, err := ParseConfig(`
initial_capital: 500000
position_size: 0.5
strategy_id: enhanced
start_time: 2023-03-01T00:00:00Z
`)
	suite.Require().NoError(err)

	suite.Equal(500_000.0, cfg.InitialCapital)
	suite.Equal(0.5, cfg.PositionSize)
	suite.Equal(indicator.TechnicalScorerName, cfg.StrategyID)
	suite.Require().True(cfg.StartTime.IsSome())
	suite.Equal(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), cfg.StartTime.Unwrap())
	suite.True(cfg.EndTime.IsNone())
	// Unset keys keep their defaults.
	suite.Equal(-0.08, cfg.StopLoss)
	suite.Equal(int64(1000), cfg.LotSize)
}

func (suite *ConfigTestSuite) TestParseConfigErrors() {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{name: "Malformed YAML", content: "initial_capital: [", code: errors.ErrCodeInvalidConfiguration},
		{name: "Zero capital", content: "initial_capital: 0", code: errors.ErrCodeInvalidCapital},
		{name: "Commission of one", content: "commission_rate: 1", code: errors.ErrCodeInvalidRate},
		{name: "Position size above one", content: "position_size: 1.2", code: errors.ErrCodeInvalidPositionSize},
		{name: "Positive stop loss", content: "stop_loss: 0.1", code: errors.ErrCodeInvalidStopLoss},
		{name: "Negative take profit", content: "take_profit: -0.1", code: errors.ErrCodeInvalidTakeProfit},
		{name: "Zero rebalance days", content: "rebalance_days: 0", code: errors.ErrCodeInvalidRebalanceDays},
		{name: "Zero lot size", content: "lot_size: 0", code: errors.ErrCodeInvalidLotSize},
		{name: "Major version mismatch", content: "engine_version: v2.0.0", code: errors.ErrCodeVersionMismatch},
		{name: "Invalid version", content: "engine_version: not-a-version", code: errors.ErrCodeInvalidVersion},
		{name: "Unknown key", content: "stoploss: -0.02", code: errors.ErrCodeInvalidConfiguration},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := ParseConfig(tc.content)
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
		})
	}
}

func (suite *ConfigTestSuite) TestParseConfigMatchingVersion() {
	cfg, err := ParseConfig("engine_version: " + version.Version)
	suite.Require().NoError(err)
	suite.Equal(version.Version, cfg.EngineVersion)
}

func (suite *ConfigTestSuite) TestLoadConfig() {
	cfg, err := LoadConfig("")
	suite.Require().NoError(err)
	suite.Equal(DefaultConfig(), cfg)

	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("take_profit: 0.2\n"), 0644))

	cfg, err = LoadConfig(path)
	suite.Require().NoError(err)
	suite.Equal(0.2, cfg.TakeProfit)

	_, err = LoadConfig(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestLoadParameterSets() {
	dir := suite.T().TempDir()

	path := filepath.Join(dir, "sets.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(`
- name: tight
  position_size: 0.1
  stop_loss: -0.03
- take_profit: 0.3
  strategy_id: enhanced
`), 0644))

	sets, err := LoadParameterSets(path)
	suite.Require().NoError(err)
	suite.Require().Len(sets, 2)

	suite.Equal("tight", sets[0].Name)
	suite.Equal(0.1, sets[0].PositionSize.Unwrap())
	suite.Equal(-0.03, sets[0].StopLoss.Unwrap())
	suite.True(sets[0].TakeProfit.IsNone())

	suite.Equal("", sets[1].Name)
	suite.Equal(0.3, sets[1].TakeProfit.Unwrap())
	suite.Equal(indicator.TechnicalScorerName, sets[1].StrategyID.Unwrap())

	empty := filepath.Join(dir, "empty.yaml")
	suite.Require().NoError(os.WriteFile(empty, []byte("[]\n"), 0644))

	_, err = LoadParameterSets(empty)
	suite.True(errors.HasCode(err, errors.ErrCodeNoParameterSets))

	_, err = LoadParameterSets(filepath.Join(dir, "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestLoadParameterSetsDeteriorationScore() {
	dir := suite.T().TempDir()

	path := filepath.Join(dir, "strict.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("- name: strict\n  deterioration_score: 35\n"), 0644))

	sets, err := LoadParameterSets(path)
	suite.Require().NoError(err)
	suite.Require().Len(sets, 1)
	suite.Equal(35.0, sets[0].Apply(DefaultConfig()).DeteriorationScore)

	typo := filepath.Join(dir, "typo.yaml")
	suite.Require().NoError(os.WriteFile(typo, []byte("- name: strict\n  deterioration: 35\n"), 0644))

	_, err = LoadParameterSets(typo)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
	suite.Contains(err.Error(), "deterioration")
}

func (suite *ConfigTestSuite) TestParseEmptyConfig() {
	cfg, err := ParseConfig("")
	suite.Require().NoError(err)
	suite.Equal(DefaultConfig(), cfg)
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	schema := GenerateConfigSchema()
	suite.Require().NotNil(schema)
	suite.Equal("backtest-engine-v1-config", schema.Title)

	for _, field := range []string{"initial_capital", "position_size", "stop_loss", "take_profit", "rebalance_days", "start_time"} {
		_, ok := schema.Properties.Get(field)
		suite.True(ok, field)
	}

	startTime, _ := schema.Properties.Get("start_time")
	suite.Equal("string", startTime.Type)
	suite.Equal("date-time", startTime.Format)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	schemaJSON, err := GenerateConfigSchemaJSON()
	suite.Require().NoError(err)
	suite.Contains(schemaJSON, `"initial_capital"`)
	suite.Contains(schemaJSON, `"deterioration_score"`)
}
