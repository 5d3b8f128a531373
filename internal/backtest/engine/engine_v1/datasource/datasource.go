package datasource

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

type DataFormat string

const (
	DataFormatCSV     DataFormat = "csv"
	DataFormatParquet DataFormat = "parquet"
)

// RequiredColumns must be present in every data file.
var RequiredColumns = []string{"date", "open", "high", "low", "close", "volume"}

// OptionalColumns default to an empty symbol and zero scores when absent.
var OptionalColumns = []string{"symbol", "score", "sub_score"}

type DataSource interface {
	// Initialize loads the daily bars at path. CSV and Parquet are supported.
	Initialize(path string) error
	// ReadAll yields the bars between start and end in ascending date order
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.Bar, error) bool)
	// LoadBars collects the bars between start and end into a slice
	LoadBars(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error)
	// Symbols returns the distinct symbols in the data
	Symbols() ([]string, error)
	// Count returns the number of bars between start and end
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}

// DetectFormat picks the file format from the extension of path.
func DetectFormat(path string) (DataFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return DataFormatCSV, nil
	case ".parquet":
		return DataFormatParquet, nil
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedDataFormat, "unsupported data file %s: expected .csv or .parquet", path)
	}
}
