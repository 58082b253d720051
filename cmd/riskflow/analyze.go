package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/epeers/riskflow/config"
	"github.com/epeers/riskflow/internal/app"
	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/services"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	tickers     string
	start       string
	end         string
	sensitivity float64
	maxSeries   int
	format      string
	table       string
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one analysis and print the result",
		Example: `  riskflow analyze --tickers NVDA,TSM,F,GM,AAPL --start 2020-01-01 --end 2023-12-31
  riskflow analyze --tickers NVDA,TSM,F --start 2021-01-01 --end 2022-12-31 --format csv --table supply_chain_impact`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.ConfigureLogging()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Analysis.Run(ctx, req)
			if err != nil {
				return err
			}
			return opts.write(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.tickers, "tickers", "", "comma-separated ticker symbols")
	f.StringVar(&opts.start, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&opts.end, "end", "", "end date (YYYY-MM-DD)")
	f.Float64Var(&opts.sensitivity, "sensitivity", services.DefaultSensitivity, "expected anomaly fraction, 0.1 to 0.5")
	f.IntVar(&opts.maxSeries, "max-series", services.DefaultMaxSeries, "companies in the time series")
	f.StringVar(&opts.format, "format", "json", "output format: json or csv")
	f.StringVar(&opts.table, "table", models.TableSupplyChainImpact, "table to print when --format csv")
	_ = cmd.MarkFlagRequired("tickers")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (o *analyzeOptions) request() (*models.AnalysisRequest, error) {
	if o.sensitivity < 0.1 || o.sensitivity > 0.5 {
		return nil, fmt.Errorf("--sensitivity must be between 0.1 and 0.5, got %v", o.sensitivity)
	}
	if o.maxSeries < 1 || o.maxSeries > 50 {
		return nil, fmt.Errorf("--max-series must be between 1 and 50, got %d", o.maxSeries)
	}
	if o.format != "json" && o.format != "csv" {
		return nil, fmt.Errorf("unknown --format %q", o.format)
	}
	start, err := models.ParseFlexibleDate(o.start)
	if err != nil {
		return nil, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := models.ParseFlexibleDate(o.end)
	if err != nil {
		return nil, fmt.Errorf("invalid --end: %w", err)
	}
	return &models.AnalysisRequest{
		Tickers:     o.tickers,
		StartDate:   start,
		EndDate:     end,
		Sensitivity: o.sensitivity,
		MaxSeries:   o.maxSeries,
	}, nil
}

func (o *analyzeOptions) write(w io.Writer, result *models.AnalysisResult) error {
	if o.format == "csv" {
		return services.WriteCSV(w, o.table, result)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
