package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestConstructors() {
	cause := errors.New("disk full")

	tests := []struct {
		name    string
		err     *Error
		code    ErrorCode
		message string
		cause   error
		text    string
	}{
		{
			name:    "new",
			err:     New(ErrCodeInvalidStopLoss, "stop loss must be negative"),
			code:    ErrCodeInvalidStopLoss,
			message: "stop loss must be negative",
			text:    "[104] stop loss must be negative",
		},
		{
			name:    "newf",
			err:     Newf(ErrCodeStrategyNotFound, "strategy %s is not registered", "momentum"),
			code:    ErrCodeStrategyNotFound,
			message: "strategy momentum is not registered",
			text:    "[400] strategy momentum is not registered",
		},
		{
			name:    "wrap",
			err:     Wrap(ErrCodeReportWriteFailed, "failed to write stats", cause),
			code:    ErrCodeReportWriteFailed,
			message: "failed to write stats",
			cause:   cause,
			text:    "[602] failed to write stats: disk full",
		},
		{
			name:    "wrapf",
			err:     Wrapf(ErrCodeQueryFailed, cause, "failed to read %s", "bars.csv"),
			code:    ErrCodeQueryFailed,
			message: "failed to read bars.csv",
			cause:   cause,
			text:    "[202] failed to read bars.csv: disk full",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.code, tc.err.Code)
			suite.Equal(tc.message, tc.err.Message)
			suite.Equal(tc.cause, tc.err.Unwrap())
			suite.Equal(tc.text, tc.err.Error())
		})
	}
}

func (suite *ErrorTestSuite) TestGetCode() {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"coded", New(ErrCodeInvalidLotSize, "lot"), ErrCodeInvalidLotSize},
		{"outermost wins", Wrap(ErrCodeStrategyRuntimeError, "scoring failed", New(ErrCodeDataNotFound, "gone")), ErrCodeStrategyRuntimeError},
		{"plain error", errors.New("plain"), ErrCodeUnknown},
		{"nil", nil, ErrCodeUnknown},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.code, GetCode(tc.err))
			suite.True(HasCode(tc.err, tc.code))
		})
	}
}

func (suite *ErrorTestSuite) TestIsMatchesByCode() {
	err := Wrap(ErrCodeComparisonCancelled, "comparison cancelled", context.Canceled)

	suite.True(errors.Is(err, New(ErrCodeComparisonCancelled, "")))
	suite.True(errors.Is(err, context.Canceled))
	suite.False(errors.Is(err, New(ErrCodeBacktestRunFailed, "")))
	suite.True(Is(err, context.Canceled))

	var coded *Error
	suite.True(As(err, &coded))
	suite.Equal(ErrCodeComparisonCancelled, coded.Code)
}

func (suite *ErrorTestSuite) TestCategory() {
	tests := []struct {
		name     string
		err      error
		category Category
	}{
		{"validation", New(ErrCodeUnorderedBars, "unordered"), CategoryValidation},
		{"data", New(ErrCodeMissingColumn, "no close"), CategoryData},
		{"strategy", New(ErrCodeScoreLengthMismatch, "short"), CategoryStrategy},
		{"backtest", New(ErrCodeNoParameterSets, "none"), CategoryBacktest},
		{"unknown", errors.New("plain"), CategoryGeneral},
		{"insufficient data", NewInsufficientDataError(200, 12, "2330", "too few bars"), CategoryData},
		{"nil", nil, CategoryNone},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.category, CategoryOf(tc.err))
		})
	}
}

func (suite *ErrorTestSuite) TestIsInvalidParameterError() {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"position size", New(ErrCodeInvalidPositionSize, "bad size"), true},
		{"unordered bars", New(ErrCodeUnorderedBars, "unordered"), true},
		{"wrapped config error", Wrap(ErrCodeInvalidConfiguration, "config", errors.New("yaml")), true},
		{"data error", New(ErrCodeDataNotFound, "missing"), false},
		{"insufficient data", NewInsufficientDataError(200, 10, "", "too few bars"), false},
		{"nil", nil, false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, IsInvalidParameterError(tc.err))
		})
	}
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(200, 150, "2330", "backtest requires at least %d bars, got %d", 200, 150)

	suite.Equal(200, err.Required)
	suite.Equal(150, err.Actual)
	suite.Equal("2330", err.Symbol)
	suite.Equal("backtest requires at least 200 bars, got 150", err.Error())

	suite.True(IsInsufficientDataError(err))
	suite.True(IsInsufficientDataError(Wrap(ErrCodeBacktestRunFailed, "run", err)))
	suite.False(IsInsufficientDataError(New(ErrCodeInvalidParameter, "bad")))
	suite.False(IsInsufficientDataError(nil))
}
