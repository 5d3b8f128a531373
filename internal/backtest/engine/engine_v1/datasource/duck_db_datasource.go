package datasource

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

const (
	rawView  = "raw_market_data"
	barsView = "market_data"
)

var barColumns = []string{`"date"`, "symbol", "open", "high", "low", "close", "volume", "score", "sub_score"}

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource opens a DuckDB database at path. An empty path or ":memory:"
// keeps everything in memory. Bars are attached later by Initialize.
func NewDataSource(path string, log *logger.Logger) (DataSource, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger.OrNop(log),
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	reader := "read_csv_auto"
	if format == DataFormatParquet {
		reader = "read_parquet"
	}

	for _, view := range []string{barsView, rawView} {
		if _, err := d.db.Exec(fmt.Sprintf("DROP VIEW IF EXISTS %s;", view)); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
		}
	}

	// Squirrel does not build CREATE VIEW
	query := fmt.Sprintf("CREATE VIEW %s AS SELECT * FROM %s('%s');", rawView, reader, escapeLiteral(path))
	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read %s", path)
	}

	columns, err := d.columns(rawView)
	if err != nil {
		return err
	}

	for _, required := range RequiredColumns {
		if !slices.Contains(columns, required) {
			return errors.Newf(errors.ErrCodeMissingColumn, "data file %s is missing required column %q", path, required)
		}
	}

	if _, err := d.db.Exec(normalizedView(columns)); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create bar view", err)
	}

	return nil
}

func (d *DuckDBDataSource) columns(view string) ([]string, error) {
	query, args, err := d.sq.Select("*").From(view).Limit(0).ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe data", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get columns", err)
	}

	columns := make([]string, len(names))
	for i, name := range names {
		columns[i] = strings.ToLower(name)
	}

	return columns, nil
}

// normalizedView casts the raw columns to the bar schema and fills in the
// optional ones.
func normalizedView(columns []string) string {
	symbol := "''"
	if slices.Contains(columns, "symbol") {
		symbol = "COALESCE(CAST(symbol AS VARCHAR), '')"
	}

	score := "CAST(0 AS DOUBLE)"
	if slices.Contains(columns, "score") {
		score = "COALESCE(CAST(score AS DOUBLE), CAST(0 AS DOUBLE))"
	}

	subScore := "CAST(0 AS DOUBLE)"
	if slices.Contains(columns, "sub_score") {
		subScore = "COALESCE(CAST(sub_score AS DOUBLE), CAST(0 AS DOUBLE))"
	}

	return fmt.Sprintf(`
		CREATE VIEW %s AS
		SELECT
			CAST("date" AS TIMESTAMP) AS "date",
			%s AS symbol,
			CAST(open AS DOUBLE) AS open,
			CAST(high AS DOUBLE) AS high,
			CAST(low AS DOUBLE) AS low,
			CAST(close AS DOUBLE) AS close,
			CAST(volume AS DOUBLE) AS volume,
			%s AS score,
			%s AS sub_score
		FROM %s;
	`, barsView, symbol, score, subScore, rawView)
}

func escapeLiteral(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

func (d *DuckDBDataSource) window(builder squirrel.SelectBuilder, start, end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{`"date"`: start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{`"date"`: end.Unwrap()})
	}

	return builder
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query, args, err := d.window(d.sq.Select("COUNT(*)").From(barsView), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.Bar, error) bool) {
	return func(yield func(types.Bar, error) bool) {
		query, args, err := d.window(d.sq.Select(barColumns...).From(barsView), start, end).
			OrderBy(`"date" ASC`).
			ToSql()
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err))

			return
		}

		d.logger.Debug("Reading bars", zap.String("query", query))

		stmt, err := d.db.Prepare(query)
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare query", err))

			return
		}
		defer stmt.Close()

		rows, err := stmt.Query(args...)
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err))

			return
		}
		defer rows.Close()

		for rows.Next() {
			var bar types.Bar

			err := rows.Scan(&bar.Date, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume, &bar.Score, &bar.SubScore)
			if err != nil {
				yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err))

				return
			}

			if !yield(bar, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating bars", err))
		}
	}
}

// LoadBars implements DataSource. Data with more than one symbol is rejected
// since a run trades a single asset.
func (d *DuckDBDataSource) LoadBars(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error) {
	symbols, err := d.Symbols()
	if err != nil {
		return nil, err
	}

	if len(symbols) > 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "data contains %d symbols (%s), expected one",
			len(symbols), strings.Join(symbols, ", "))
	}

	bars := make([]types.Bar, 0)

	for bar, err := range d.ReadAll(start, end) {
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, errors.New(errors.ErrCodeDataNotFound, "no bars found in the requested range")
	}

	return bars, nil
}

// Symbols implements DataSource.
func (d *DuckDBDataSource) Symbols() ([]string, error) {
	query, args, err := d.sq.Select("symbol").Distinct().From(barsView).OrderBy("symbol").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}
