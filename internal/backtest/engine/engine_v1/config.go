package engine

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the reference parameters for a Taiwan equity backtest.
func DefaultConfig() types.RunConfig {
	return types.RunConfig{
		InitialCapital:     1_000_000,
		CommissionRate:     0.001425,
		MinCommission:      0,
		TaxRate:            0.003,
		Slippage:           0.001,
		PositionSize:       0.3,
		StopLoss:           -0.08,
		TakeProfit:         0.15,
		RebalanceDays:      5,
		LotSize:            1000,
		EntryScore:         25,
		EntrySubScore:      8,
		DeteriorationScore: 20,
		StrategyID:         indicator.PrecomputedScorerName,
		StartTime:          optional.None[time.Time](),
		EndTime:            optional.None[time.Time](),
		EngineVersion:      "",
	}
}

// ParseConfig decodes a YAML document on top of DefaultConfig and validates it.
func ParseConfig(content string) (types.RunConfig, error) {
	cfg := DefaultConfig()

	if err := decodeStrict([]byte(content), &cfg); err != nil {
		return types.RunConfig{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return types.RunConfig{}, err
	}

	if err := version.CheckConfig(cfg.EngineVersion); err != nil {
		return types.RunConfig{}, err
	}

	return cfg, nil
}

// LoadConfig reads and parses a YAML config file. An empty path yields DefaultConfig.
func LoadConfig(path string) (types.RunConfig, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return types.RunConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return ParseConfig(string(content))
}

// LoadParameterSets reads a YAML list of parameter overrides.
func LoadParameterSets(path string) ([]types.ParameterOverride, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read parameter file %s", path)
	}

	var overrides []types.ParameterOverride
	if err := decodeStrict(content, &overrides); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse parameter file", err)
	}

	if len(overrides) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoParameterSets, "parameter file %s contains no parameter sets", path)
	}

	return overrides, nil
}

// decodeStrict decodes a single YAML document and rejects unknown keys. An
// empty document leaves out untouched.
func decodeStrict(content []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// GenerateConfigSchema generates a JSON schema for the run config.
func GenerateConfigSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(optional.Option[time.Time]{}) {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(&types.RunConfig{})

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateConfigSchemaJSON generates the JSON schema as an indented string.
func GenerateConfigSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(GenerateConfigSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
