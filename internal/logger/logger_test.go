package logger

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestLevels() {
	tests := []struct {
		name    string
		level   zapcore.Level
		debug   bool
		info    bool
		warning bool
	}{
		{"debug", zapcore.DebugLevel, true, true, true},
		{"info", zapcore.InfoLevel, false, true, true},
		{"warn", zapcore.WarnLevel, false, false, true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			log, err := NewLoggerWithLevel(tc.level)
			suite.Require().NoError(err)
			suite.Equal(tc.debug, log.Core().Enabled(zapcore.DebugLevel))
			suite.Equal(tc.info, log.Core().Enabled(zapcore.InfoLevel))
			suite.Equal(tc.warning, log.Core().Enabled(zapcore.WarnLevel))
		})
	}

	log, err := NewLogger()
	suite.Require().NoError(err)
	suite.False(log.Core().Enabled(zapcore.DebugLevel))
}

func (suite *LoggerTestSuite) TestWithAddsFields() {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &Logger{Logger: zap.New(core)}

	child := log.With(zap.String("parameter_set", "balanced"))
	child.Info("Parameter set completed", zap.Int("trades", 4))
	log.Debug("dropped")

	suite.Require().Equal(1, logs.Len())
	entry := logs.All()[0]
	suite.Equal("Parameter set completed", entry.Message)
	suite.Equal(map[string]any{"parameter_set": "balanced", "trades": int64(4)}, entry.ContextMap())
}

func (suite *LoggerTestSuite) TestOrNop() {
	suite.NotNil(OrNop(nil).Logger)
	suite.NotNil(OrNop(&Logger{Logger: nil}).Logger)

	log := NewNopLogger()
	suite.Same(log, OrNop(log))

	var missing *Logger
	suite.NotPanics(func() {
		missing.With(zap.String("k", "v")).Info("discarded")
	})
}

func (suite *LoggerTestSuite) TestSyncWithoutCore() {
	suite.NoError((&Logger{Logger: nil}).Sync())
	suite.NoError(NewNopLogger().Sync())
}
