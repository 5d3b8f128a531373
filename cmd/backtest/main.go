package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status: 2 for bad input, 3 for
// unreadable data, 130 for an interrupted run and 1 otherwise.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}

	switch errors.CategoryOf(err) {
	case errors.CategoryValidation:
		return 2
	case errors.CategoryData:
		return 3
	default:
		return 1
	}
}

func newApp() *cli.Command {
	dataFlag := &cli.StringFlag{
		Name:     "data",
		Aliases:  []string{"d"},
		Usage:    "Path to the daily bar file (`FILE`.csv or .parquet)",
		Required: true,
	}
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the run config YAML. Defaults apply when omitted",
	}
	strategyFlag := &cli.StringFlag{
		Name:    "strategy",
		Aliases: []string{"s"},
		Usage:   "Scoring function to use (precomputed, enhanced). Overrides strategy_id in the config",
	}
	resultsFlag := &cli.StringFlag{
		Name:    "results",
		Aliases: []string{"r"},
		Usage:   "Folder to write results into. Nothing is written when omitted",
	}

	return &cli.Command{
		Name:  "backtest",
		Usage: "Score-driven daily backtesting for a single asset",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one backtest",
				Flags: []cli.Flag{
					dataFlag,
					configFlag,
					strategyFlag,
					resultsFlag,
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format for trades and equity curve (parquet, csv)",
						Value:   "parquet",
					},
				},
				Action: runAction,
			},
			{
				Name:  "compare",
				Usage: "Run the same data under several parameter sets and rank them",
				Flags: []cli.Flag{
					dataFlag,
					configFlag,
					strategyFlag,
					resultsFlag,
					&cli.StringFlag{
						Name:    "params",
						Aliases: []string{"p"},
						Usage:   "YAML list of parameter overrides. The conservative, balanced and aggressive sets are used when omitted",
					},
					&cli.StringFlag{
						Name:  "rank",
						Usage: "Metric to rank by (sharpe_ratio, total_return, win_rate, profit_factor, max_drawdown)",
						Value: "sharpe_ratio",
					},
				},
				Action: compareAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the run config",
				Action: schemaAction,
			},
		},
	}
}
