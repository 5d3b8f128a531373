package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func formatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}

	return fmt.Sprintf("%.2f", v)
}

// renderReport prints the headline numbers of a single run.
func renderReport(report types.Report) string {
	var sb strings.Builder

	period := report.DataPeriod
	sb.WriteString(titleStyle.Render("Backtest results") + "\n")
	sb.WriteString(faintStyle.Render(fmt.Sprintf("%s to %s, %d bars, strategy %s",
		period.Start.Format(time.DateOnly), period.End.Format(time.DateOnly), period.TotalDays, report.Parameters.StrategyID)) + "\n\n")

	rows := [][2]string{
		{"Initial capital", fmt.Sprintf("%.2f", report.Results.InitialCapital)},
		{"Final equity", fmt.Sprintf("%.2f", report.Results.FinalEquity)},
		{"Total return", formatPercent(report.Results.TotalReturn)},
		{"Trades", fmt.Sprintf("%d (%d won, %d lost)", report.Metrics.TotalTrades, report.Metrics.WinningTrades, report.Metrics.LosingTrades)},
		{"Win rate", report.Metrics.FormatWinRate()},
		{"Profit factor", formatRatio(report.Metrics.ProfitFactor)},
		{"Sharpe ratio", formatRatio(report.Metrics.SharpeRatio)},
		{"Max drawdown", formatPercent(report.Metrics.MaxDrawdown)},
		{"Avg holding days", fmt.Sprintf("%.1f", report.Metrics.AvgHoldingDays)},
		{"Total fees", fmt.Sprintf("%.2f", report.Metrics.TotalFees)},
	}

	for _, row := range rows {
		fmt.Fprintf(&sb, "%-18s %s\n", row[0], row[1])
	}

	for _, reason := range types.AllExitReasons {
		if count := report.Metrics.ExitReasons[reason]; count > 0 {
			fmt.Fprintf(&sb, "  %-16s %d\n", reason, count)
		}
	}

	return sb.String()
}

// renderComparison prints the ranked comparison as a table, best first.
func renderComparison(result types.ComparisonResult) string {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Parameters", Width: 28},
		{Title: "Return", Width: 10},
		{Title: "Win rate", Width: 10},
		{Title: "Sharpe", Width: 8},
		{Title: "Max DD", Width: 9},
		{Title: "PF", Width: 7},
		{Title: "Trades", Width: 7},
	}

	rows := make([]table.Row, 0, len(result.Results))

	for i, entry := range result.Results {
		if entry.Failed() {
			rows = append(rows, table.Row{fmt.Sprint(i + 1), entry.Name, "failed", "-", "-", "-", "-", "-"})

			continue
		}

		rows = append(rows, table.Row{
			fmt.Sprint(i + 1),
			entry.Name,
			formatPercent(entry.TotalReturn),
			entry.Report.Metrics.FormatWinRate(),
			formatRatio(entry.SharpeRatio),
			formatPercent(entry.MaxDrawdown),
			formatRatio(entry.ProfitFactor),
			fmt.Sprint(entry.TotalTrades),
		})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = lipgloss.NewStyle()

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2),
		table.WithFocused(false),
		table.WithStyles(styles),
	)

	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Ranked by %s", result.RankedBy)) + "\n")
	sb.WriteString(t.View() + "\n")

	if best, ok := result.Best(); ok {
		sb.WriteString(fmt.Sprintf("Best: %s\n", best.Name))
	}

	for _, entry := range result.Results {
		if entry.Failed() {
			sb.WriteString(faintStyle.Render(fmt.Sprintf("%s failed: %s", entry.Name, entry.Error)) + "\n")
		}
	}

	return sb.String()
}
