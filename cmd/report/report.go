package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/aggregate"
	"github.com/rocjay1/ledger-dashboard/internal/config"
	"github.com/rocjay1/ledger-dashboard/internal/dashboard"
	"github.com/rocjay1/ledger-dashboard/internal/ledger"
	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/spf13/cobra"
)

// ReportCmd prints dashboard views of a local ledger export as JSON.
type ReportCmd struct {
	out         io.Writer
	view        string
	includeLoan bool
	period      int
	category    string
	top         int
}

func NewReportCmd(out io.Writer) *cobra.Command {
	rc := &ReportCmd{out: out}
	cmd := &cobra.Command{
		Use:          "report <file>",
		Short:        "Print dashboard views of a Money Manager export",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         rc.run,
	}

	cmd.Flags().StringVar(&rc.view, "view", "dashboard", "View to print: dashboard, monthly, categories, ratio, forecast, category-trend or digest")
	cmd.Flags().BoolVar(&rc.includeLoan, "include-loan", false, "Count Loan transactions as expenses")
	cmd.Flags().IntVar(&rc.period, "period", 0, "Seasonal period in days (defaults to FORECAST_PERIOD)")
	cmd.Flags().StringVar(&rc.category, "category", "", "Category for the category-trend view")
	cmd.Flags().IntVar(&rc.top, "top", 5, "Number of categories and transactions in the digest view")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cmd.Flags().Changed("include-loan") {
		cfg.IncludeLoan = rc.includeLoan
	}
	if rc.period != 0 {
		cfg.ForecastPeriod = rc.period
	}
	if err := cfg.ValidatePipeline(); err != nil {
		return err
	}

	l, report, err := loadFile(args[0], cfg.LedgerOptions())
	if err != nil {
		return err
	}
	for _, msg := range report.Messages() {
		fmt.Fprintln(cmd.ErrOrStderr(), "skipped", msg)
	}

	body, err := rc.render(cmd.Context(), l, cfg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(rc.out)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}

func loadFile(path string, opts ledger.Options) (models.Ledger, ledger.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Ledger{}, ledger.Report{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ledger.Load(path, f, opts)
}

func (rc *ReportCmd) render(ctx context.Context, l models.Ledger, cfg *config.Config) (any, error) {
	opts := cfg.DashboardOptions()
	monthlyOpts := aggregate.MonthlyOptions{IncludeLoan: cfg.IncludeLoan}

	switch rc.view {
	case "dashboard":
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		return dashboard.Build(ctx, l, opts)
	case "monthly":
		return map[string]any{
			"monthly": aggregate.Monthly(l, monthlyOpts),
			"totals":  aggregate.Totals(l, monthlyOpts),
		}, nil
	case "categories":
		return aggregate.Categories(l), nil
	case "ratio":
		return aggregate.ExpenseIncomeRatio(aggregate.Monthly(l, monthlyOpts)), nil
	case "forecast":
		result, projection, err := dashboard.Forecast(l, opts)
		if err != nil {
			return nil, err
		}
		return map[string]any{"forecast": result, "projection": projection}, nil
	case "category-trend":
		if rc.category == "" {
			return nil, fmt.Errorf("--category is required for the category-trend view")
		}
		return aggregate.CategoryTrend(l, rc.category), nil
	case "digest":
		return dashboard.Digest(l, cfg.IncludeLoan, rc.top), nil
	}
	return nil, fmt.Errorf("unknown view %q", rc.view)
}
