package version

import (
	"testing"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVersionCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		engine        string
		config        string
		code          errors.ErrorCode
		errorContains string
	}{
		{name: "exact match", engine: "1.0.0", config: "1.0.0"},
		{name: "patch differs", engine: "1.0.3", config: "1.0.0"},
		{name: "config patch ahead", engine: "1.0.0", config: "1.0.7"},
		{name: "v prefixes", engine: "v1.0.0", config: "1.0.2"},
		{name: "prerelease engine", engine: "1.0.0-rc.1", config: "v1.0.0"},
		{name: "build metadata", engine: "1.0.0+20240105", config: "1.0.0"},
		{name: "development engine", engine: "main", config: "3.1.0"},
		{name: "development config", engine: "1.0.0", config: "main"},
		{
			name:          "minor differs",
			engine:        "1.1.0",
			config:        "1.0.0",
			code:          errors.ErrCodeVersionMismatch,
			errorContains: "minor version mismatch",
		},
		{
			name:          "major differs",
			engine:        "2.0.0",
			config:        "1.0.0",
			code:          errors.ErrCodeVersionMismatch,
			errorContains: "major version mismatch",
		},
		{
			name:          "unparseable config",
			engine:        "1.0.0",
			config:        "latest",
			code:          errors.ErrCodeInvalidVersion,
			errorContains: "invalid config version",
		},
		{
			name:          "empty engine",
			engine:        "",
			config:        "1.0.0",
			code:          errors.ErrCodeInvalidVersion,
			errorContains: "invalid engine version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersionCompatibility(tt.engine, tt.config)
			if tt.code == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code))
			assert.True(t, errors.IsInvalidParameterError(err))
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestCheckConfig(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	Version = "v1.4.2"

	assert.NoError(t, CheckConfig(""))
	assert.NoError(t, CheckConfig("1.4.0"))
	assert.True(t, errors.HasCode(CheckConfig("1.5.0"), errors.ErrCodeVersionMismatch))

	Version = "main"
	assert.NoError(t, CheckConfig("9.9.9"))
}
