package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

type OutputFormat string

const (
	OutputFormatParquet OutputFormat = "parquet"
	OutputFormatCSV     OutputFormat = "csv"
)

const (
	StatsFileName      = "stats.yaml"
	ComparisonFileName = "comparison.yaml"
)

// ParseOutputFormat accepts "parquet" or "csv". Empty means parquet.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(name)) {
	case "", OutputFormatParquet:
		return OutputFormatParquet, nil
	case OutputFormatCSV:
		return OutputFormatCSV, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidOutputFormat, "unsupported output format %q: expected parquet or csv", name)
	}
}

func (f OutputFormat) copyOptions() string {
	if f == OutputFormatCSV {
		return "(FORMAT CSV, HEADER)"
	}

	return "(FORMAT PARQUET)"
}

// RunMetadata describes where a report came from.
type RunMetadata struct {
	StrategyID string
	DataPath   string
}

// ReportWriter persists reports into a results folder. Tables are staged in
// an in-memory DuckDB and exported with COPY.
type ReportWriter struct {
	log    *logger.Logger
	format OutputFormat
	sq     squirrel.StatementBuilderType
	now    func() time.Time
}

func NewReportWriter(log *logger.Logger, format OutputFormat) *ReportWriter {
	if format == "" {
		format = OutputFormatParquet
	}

	return &ReportWriter{
		log:    logger.OrNop(log),
		format: format,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		now:    time.Now,
	}
}

// Write stores stats.yaml, the trade log and the equity curve in folder and
// returns the summary it wrote.
func (w *ReportWriter) Write(folder string, report types.Report, meta RunMetadata) (types.RunSummary, error) {
	if folder == "" {
		return types.RunSummary{}, errors.New(errors.ErrCodeBacktestNoResultsDir, "results folder is required")
	}

	if err := os.MkdirAll(folder, 0755); err != nil {
		return types.RunSummary{}, errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to create results folder %s", folder)
	}

	tradesPath := filepath.Join(folder, "trades."+string(w.format))
	curvePath := filepath.Join(folder, "equity_curve."+string(w.format))

	if err := w.export(report, tradesPath, curvePath); err != nil {
		return types.RunSummary{}, err
	}

	strategyID := meta.StrategyID
	if strategyID == "" {
		strategyID = report.Parameters.StrategyID
	}

	summary := types.RunSummary{
		ID:                  uuid.New().String(),
		Timestamp:           w.now(),
		EngineVersion:       version.Version,
		StrategyID:          strategyID,
		Parameters:          report.Parameters,
		Results:             report.Results,
		Metrics:             report.Metrics,
		DataPeriod:          report.DataPeriod,
		DataPath:            meta.DataPath,
		TradesFilePath:      tradesPath,
		EquityCurveFilePath: curvePath,
	}

	statsPath := filepath.Join(folder, StatsFileName)
	if err := types.WriteRunSummary(statsPath, summary); err != nil {
		return types.RunSummary{}, errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write run summary", err)
	}

	w.log.Info("Backtest results written",
		zap.String("stats", statsPath),
		zap.String("trades", tradesPath),
		zap.String("equity_curve", curvePath),
	)

	return summary, nil
}

// WriteComparison stores a ranked comparison as comparison.yaml in folder.
func (w *ReportWriter) WriteComparison(folder string, result types.ComparisonResult) (string, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to create results folder %s", folder)
	}

	path := filepath.Join(folder, ComparisonFileName)
	if err := types.WriteComparisonResult(path, result); err != nil {
		return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write comparison result", err)
	}

	w.log.Info("Comparison result written", zap.String("path", path))

	return path, nil
}

func (w *ReportWriter) export(report types.Report, tradesPath, curvePath string) error {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to open DuckDB", err)
	}
	defer db.Close()

	if err := createTables(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to begin transaction", err)
	}

	if err := w.insertTrades(tx, report.Trades); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := w.insertEquityCurve(tx, report.EquityCurve); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to commit transaction", err)
	}

	// Squirrel doesn't support COPY
	for table, path := range map[string]string{"trades": tradesPath, "equity_curve": curvePath} {
		query := fmt.Sprintf("COPY (SELECT * FROM %s ORDER BY rowid) TO '%s' %s", table, strings.ReplaceAll(path, "'", "''"), w.format.copyOptions())
		if _, err := db.Exec(query); err != nil {
			return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to export %s", table)
		}
	}

	return nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE trades (
			entry_date TIMESTAMP,
			exit_date TIMESTAMP,
			entry_price DOUBLE,
			exit_price DOUBLE,
			shares BIGINT,
			entry_fee DOUBLE,
			exit_fee DOUBLE,
			exit_tax DOUBLE,
			gross_profit DOUBLE,
			net_profit DOUBLE,
			profit_pct DOUBLE,
			holding_days INTEGER,
			exit_reason TEXT,
			entry_score DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create trades table", err)
	}

	_, err = db.Exec(`
		CREATE TABLE equity_curve (
			date TIMESTAMP,
			equity DOUBLE,
			cash DOUBLE,
			position_value DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create equity_curve table", err)
	}

	return nil
}

func (w *ReportWriter) insertTrades(tx *sql.Tx, trades []types.Trade) error {
	for _, trade := range trades {
		_, err := w.sq.
			Insert("trades").
			Columns(
				"entry_date", "exit_date", "entry_price", "exit_price", "shares",
				"entry_fee", "exit_fee", "exit_tax", "gross_profit", "net_profit",
				"profit_pct", "holding_days", "exit_reason", "entry_score",
			).
			Values(
				trade.EntryDate, trade.ExitDate, trade.EntryPrice, trade.ExitPrice, trade.Shares,
				trade.EntryFee, trade.ExitFee, trade.ExitTax, trade.GrossProfit, trade.NetProfit,
				trade.ProfitPct, trade.HoldingDays, string(trade.ExitReason), trade.EntryScore,
			).
			RunWith(tx).
			Exec()
		if err != nil {
			return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to insert trade", err)
		}
	}

	return nil
}

func (w *ReportWriter) insertEquityCurve(tx *sql.Tx, curve []types.EquityPoint) error {
	for _, point := range curve {
		_, err := w.sq.
			Insert("equity_curve").
			Columns("date", "equity", "cash", "position_value").
			Values(point.Date, point.Equity, point.Cash, point.PositionValue).
			RunWith(tx).
			Exec()
		if err != nil {
			return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to insert equity point", err)
		}
	}

	return nil
}
