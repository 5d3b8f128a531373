package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPositionSize  ErrorCode = 102
	ErrCodeInvalidTakeProfit    ErrorCode = 103
	ErrCodeInvalidStopLoss      ErrorCode = 104
	ErrCodeInvalidRate          ErrorCode = 105
	ErrCodeInvalidRebalanceDays ErrorCode = 106
	ErrCodeInvalidCapital       ErrorCode = 107
	ErrCodeInvalidLotSize       ErrorCode = 108
	ErrCodeUnorderedBars        ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidRankingMetric ErrorCode = 111
	ErrCodeInvalidThreshold     ErrorCode = 112
	ErrCodeInvalidDateRange     ErrorCode = 113
	ErrCodeMissingParameter     ErrorCode = 114
	ErrCodeVersionMismatch      ErrorCode = 115
	ErrCodeInvalidOutputFormat  ErrorCode = 116

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeUnsupportedDataFormat ErrorCode = 203
	ErrCodeMissingColumn         ErrorCode = 204

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound     ErrorCode = 400
	ErrCodeStrategyRuntimeError ErrorCode = 402
	ErrCodeScoreLengthMismatch  ErrorCode = 403

	// Backtest errors (600-699)
	ErrCodeBacktestRunFailed     ErrorCode = 600
	ErrCodeComparisonCancelled   ErrorCode = 601
	ErrCodeReportWriteFailed     ErrorCode = 602
	ErrCodeNoParameterSets       ErrorCode = 603
	ErrCodeBacktestNoResultsDir  ErrorCode = 604
	ErrCodeBacktestNoDatasource  ErrorCode = 605
	ErrCodeBacktestNoScoringFunc ErrorCode = 606
)

// Category groups error codes by the hundred they fall in.
type Category string

const (
	CategoryNone       Category = ""
	CategoryGeneral    Category = "general"
	CategoryValidation Category = "validation"
	CategoryData       Category = "data"
	CategoryStrategy   Category = "strategy"
	CategoryBacktest   Category = "backtest"
)

// IsValidationCode reports whether code falls in the validation range.
func (c ErrorCode) IsValidationCode() bool {
	return c >= 100 && c < 200
}

func (c ErrorCode) Category() Category {
	switch {
	case c.IsValidationCode():
		return CategoryValidation
	case c >= 200 && c < 300:
		return CategoryData
	case c >= 400 && c < 500:
		return CategoryStrategy
	case c >= 600 && c < 700:
		return CategoryBacktest
	default:
		return CategoryGeneral
	}
}
