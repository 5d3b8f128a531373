package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RunConfig is the parameter set for a single simulation. It is immutable for
// the duration of a run.
type RunConfig struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting cash for the run,exclusiveMinimum=0" validate:"gt=0"`
	CommissionRate float64 `yaml:"commission_rate" json:"commission_rate" jsonschema:"title=Commission Rate,description=Commission charged on entry and exit as a fraction of notional,minimum=0,exclusiveMaximum=1" validate:"gte=0,lt=1"`
	MinCommission  float64 `yaml:"min_commission" json:"min_commission" jsonschema:"title=Minimum Commission,description=Floor applied to every non-zero commission,minimum=0" validate:"gte=0"`
	TaxRate        float64 `yaml:"tax_rate" json:"tax_rate" jsonschema:"title=Tax Rate,description=Transaction tax charged on exit as a fraction of notional,minimum=0,exclusiveMaximum=1" validate:"gte=0,lt=1"`
	Slippage       float64 `yaml:"slippage" json:"slippage" jsonschema:"title=Slippage,description=Adverse fill adjustment as a fraction of the quote,minimum=0,exclusiveMaximum=1" validate:"gte=0,lt=1"`
	PositionSize   float64 `yaml:"position_size" json:"position_size" jsonschema:"title=Position Size,description=Fraction of available cash used per entry,exclusiveMinimum=0,maximum=1" validate:"gt=0,lte=1"`
	StopLoss       float64 `yaml:"stop_loss" json:"stop_loss" jsonschema:"title=Stop Loss,description=Negative fractional return that closes the position,exclusiveMaximum=0" validate:"lt=0"`
	TakeProfit     float64 `yaml:"take_profit" json:"take_profit" jsonschema:"title=Take Profit,description=Positive fractional return that closes the position,exclusiveMinimum=0" validate:"gt=0"`
	RebalanceDays  int     `yaml:"rebalance_days" json:"rebalance_days" jsonschema:"title=Rebalance Days,description=Bars between score re-evaluations of an open position,minimum=1" validate:"gte=1"`
	LotSize        int64   `yaml:"lot_size" json:"lot_size" jsonschema:"title=Lot Size,description=Round lot share count,minimum=1" validate:"gte=1"`
	// EntryScore and EntrySubScore form the two-part entry gate.
	EntryScore    float64 `yaml:"entry_score" json:"entry_score" jsonschema:"title=Entry Score,description=Minimum overall score to open a position"`
	EntrySubScore float64 `yaml:"entry_sub_score" json:"entry_sub_score" jsonschema:"title=Entry Sub Score,description=Minimum sub-indicator score to open a position"`
	// DeteriorationScore closes an open position at a re-evaluation bar when the score falls below it.
	DeteriorationScore float64                    `yaml:"deterioration_score" json:"deterioration_score" jsonschema:"title=Deterioration Score,description=Score below which an open position is closed at re-evaluation"`
	StrategyID         string                     `yaml:"strategy_id" json:"strategy_id" jsonschema:"title=Strategy,description=Identifier of the scoring function that produced the scores"`
	StartTime          optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional first bar date to include"`
	EndTime            optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional last bar date to include"`
	// EngineVersion is the engine version the config was written for. Empty skips the check.
	EngineVersion string `yaml:"engine_version,omitempty" json:"engine_version,omitempty" jsonschema:"title=Engine Version,description=Engine version this configuration targets"`
}

var validate = validator.New()

var fieldErrorCodes = map[string]errors.ErrorCode{
	"InitialCapital": errors.ErrCodeInvalidCapital,
	"CommissionRate": errors.ErrCodeInvalidRate,
	"MinCommission":  errors.ErrCodeInvalidRate,
	"TaxRate":        errors.ErrCodeInvalidRate,
	"Slippage":       errors.ErrCodeInvalidRate,
	"PositionSize":   errors.ErrCodeInvalidPositionSize,
	"StopLoss":       errors.ErrCodeInvalidStopLoss,
	"TakeProfit":     errors.ErrCodeInvalidTakeProfit,
	"RebalanceDays":  errors.ErrCodeInvalidRebalanceDays,
	"LotSize":        errors.ErrCodeInvalidLotSize,
}

// Validate checks the config and returns the first violation as a coded
// validation error.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid run config", err)
		}

		fe := validationErrs[0]

		code, ok := fieldErrorCodes[fe.StructField()]
		if !ok {
			code = errors.ErrCodeInvalidParameter
		}

		return errors.Newf(code, "invalid %s: %v violates %s", fe.StructField(), fe.Value(), constraint(fe))
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidDateRange, "end time %s is before start time %s",
			c.EndTime.Unwrap().Format(time.DateOnly), c.StartTime.Unwrap().Format(time.DateOnly))
	}

	return nil
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}

	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}

// InWindow reports whether date falls inside the optional start/end window.
func (c RunConfig) InWindow(date time.Time) bool {
	if c.StartTime.IsSome() && date.Before(c.StartTime.Unwrap()) {
		return false
	}

	if c.EndTime.IsSome() && date.After(c.EndTime.Unwrap()) {
		return false
	}

	return true
}

// runConfigYAML mirrors RunConfig with pointer fields so that decoding only
// overwrites keys present in the document.
type runConfigYAML struct {
	InitialCapital     *float64   `yaml:"initial_capital"`
	CommissionRate     *float64   `yaml:"commission_rate"`
	MinCommission      *float64   `yaml:"min_commission"`
	TaxRate            *float64   `yaml:"tax_rate"`
	Slippage           *float64   `yaml:"slippage"`
	PositionSize       *float64   `yaml:"position_size"`
	StopLoss           *float64   `yaml:"stop_loss"`
	TakeProfit         *float64   `yaml:"take_profit"`
	RebalanceDays      *int       `yaml:"rebalance_days"`
	LotSize            *int64     `yaml:"lot_size"`
	EntryScore         *float64   `yaml:"entry_score"`
	EntrySubScore      *float64   `yaml:"entry_sub_score"`
	DeteriorationScore *float64   `yaml:"deterioration_score"`
	StrategyID         *string    `yaml:"strategy_id"`
	StartTime          *time.Time `yaml:"start_time,omitempty"`
	EndTime            *time.Time `yaml:"end_time,omitempty"`
	EngineVersion      *string    `yaml:"engine_version,omitempty"`
}

// UnmarshalYAML decodes a config document on top of the receiver's current values.
func (c *RunConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw runConfigYAML
	if err := decodeKnown(value, &raw); err != nil {
		return err
	}

	setIfPresent(&c.InitialCapital, raw.InitialCapital)
	setIfPresent(&c.CommissionRate, raw.CommissionRate)
	setIfPresent(&c.MinCommission, raw.MinCommission)
	setIfPresent(&c.TaxRate, raw.TaxRate)
	setIfPresent(&c.Slippage, raw.Slippage)
	setIfPresent(&c.PositionSize, raw.PositionSize)
	setIfPresent(&c.StopLoss, raw.StopLoss)
	setIfPresent(&c.TakeProfit, raw.TakeProfit)
	setIfPresent(&c.RebalanceDays, raw.RebalanceDays)
	setIfPresent(&c.LotSize, raw.LotSize)
	setIfPresent(&c.EntryScore, raw.EntryScore)
	setIfPresent(&c.EntrySubScore, raw.EntrySubScore)
	setIfPresent(&c.DeteriorationScore, raw.DeteriorationScore)
	setIfPresent(&c.StrategyID, raw.StrategyID)
	setIfPresent(&c.EngineVersion, raw.EngineVersion)

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	}

	return nil
}

// MarshalYAML writes optional dates as plain timestamps, omitting unset ones.
func (c RunConfig) MarshalYAML() (any, error) {
	raw := runConfigYAML{
		InitialCapital:     &c.InitialCapital,
		CommissionRate:     &c.CommissionRate,
		MinCommission:      &c.MinCommission,
		TaxRate:            &c.TaxRate,
		Slippage:           &c.Slippage,
		PositionSize:       &c.PositionSize,
		StopLoss:           &c.StopLoss,
		TakeProfit:         &c.TakeProfit,
		RebalanceDays:      &c.RebalanceDays,
		LotSize:            &c.LotSize,
		EntryScore:         &c.EntryScore,
		EntrySubScore:      &c.EntrySubScore,
		DeteriorationScore: &c.DeteriorationScore,
		StrategyID:         &c.StrategyID,
		StartTime:          nil,
		EndTime:            nil,
		EngineVersion:      nil,
	}

	if c.StartTime.IsSome() {
		start := c.StartTime.Unwrap()
		raw.StartTime = &start
	}

	if c.EndTime.IsSome() {
		end := c.EndTime.Unwrap()
		raw.EndTime = &end
	}

	if c.EngineVersion != "" {
		raw.EngineVersion = &c.EngineVersion
	}

	return raw, nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
