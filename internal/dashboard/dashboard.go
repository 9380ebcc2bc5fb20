// Package dashboard runs the full aggregation pipeline over one ledger.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocjay1/ledger-dashboard/internal/aggregate"
	"github.com/rocjay1/ledger-dashboard/internal/charts"
	"github.com/rocjay1/ledger-dashboard/internal/forecast"
	"github.com/rocjay1/ledger-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPeriod         = 7
	DefaultProjectionSize = 12
)

// Options controls a dashboard build. Zero values select the defaults.
type Options struct {
	IncludeLoan bool
	// Period is the seasonal period, in days, of the expense decomposition.
	Period int
	// ProjectionSize is the number of months projected past the ledger.
	ProjectionSize int
	Decomposer     forecast.Decomposer
	Presenter      charts.Presenter
}

func (o Options) withDefaults() Options {
	if o.Period == 0 {
		o.Period = DefaultPeriod
	}
	if o.ProjectionSize == 0 {
		o.ProjectionSize = DefaultProjectionSize
	}
	if o.Decomposer == nil {
		o.Decomposer = forecast.Classical{Model: forecast.Additive}
	}
	if o.Presenter == nil {
		o.Presenter = charts.NewSpecPresenter(charts.Options{})
	}
	return o
}

// Charts holds the chart specification of every dashboard view.
type Charts struct {
	Monthly      charts.Chart  `json:"monthly"`
	Distribution charts.Chart  `json:"distribution"`
	Ratio        charts.Chart  `json:"ratio"`
	Forecast     *charts.Chart `json:"forecast,omitempty"`
}

// Dashboard is the result of one pipeline run.
type Dashboard struct {
	Totals        models.Totals            `json:"totals"`
	Monthly       models.MonthlyAggregate  `json:"monthly"`
	Categories    models.CategoryAggregate `json:"categories"`
	Ratio         []models.RatioPoint      `json:"ratio"`
	Forecast      *models.ForecastResult   `json:"forecast,omitempty"`
	Projection    models.Series            `json:"projection,omitempty"`
	ForecastError string                   `json:"forecast_error,omitempty"`
	Charts        Charts                   `json:"charts"`
}

// Build computes every view of l. A forecast failure is recorded in
// ForecastError and does not fail the build.
func Build(ctx context.Context, l models.Ledger, opts Options) (*Dashboard, error) {
	if l.Len() == 0 {
		return nil, &models.EmptyLedgerError{}
	}
	opts = opts.withDefaults()
	monthlyOpts := aggregate.MonthlyOptions{IncludeLoan: opts.IncludeLoan}

	d := &Dashboard{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.Monthly = aggregate.Monthly(l, monthlyOpts)
		d.Ratio = aggregate.ExpenseIncomeRatio(d.Monthly)
		d.Charts.Monthly = opts.Presenter.MonthlyTrend(d.Monthly)
		d.Charts.Ratio = opts.Presenter.Ratio(d.Ratio)
		return ctx.Err()
	})
	g.Go(func() error {
		d.Categories = aggregate.Categories(l)
		d.Charts.Distribution = opts.Presenter.Distribution(d.Categories)
		return ctx.Err()
	})
	g.Go(func() error {
		d.Totals = aggregate.Totals(l, monthlyOpts)
		return ctx.Err()
	})

	var (
		result      models.ForecastResult
		projection  models.Series
		forecastErr error
	)
	g.Go(func() error {
		result, projection, forecastErr = Forecast(l, opts)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	if forecastErr != nil {
		slog.Warn("Forecast unavailable", "error", forecastErr)
		d.ForecastError = forecastErr.Error()
		return d, nil
	}
	d.Forecast = &result
	d.Projection = projection
	chart := opts.Presenter.Decomposition(DailyExpenses(l, opts.IncludeLoan), result, projection)
	d.Charts.Forecast = &chart
	return d, nil
}

// Forecast decomposes the daily expense series of l and projects monthly
// expenses past the end of the ledger.
func Forecast(l models.Ledger, opts Options) (models.ForecastResult, models.Series, error) {
	opts = opts.withDefaults()

	daily := DailyExpenses(l, opts.IncludeLoan)
	result, err := opts.Decomposer.Decompose(daily, opts.Period)
	if err != nil {
		return models.ForecastResult{}, nil, fmt.Errorf("failed to decompose expenses: %w", err)
	}

	monthly, err := aggregate.MonthlySeries(aggregate.Monthly(l, aggregate.MonthlyOptions{IncludeLoan: opts.IncludeLoan}), models.DirectionExpense)
	if err != nil {
		return models.ForecastResult{}, nil, fmt.Errorf("failed to build monthly expenses: %w", err)
	}
	projection, err := forecast.Project(monthly, opts.ProjectionSize, forecast.Monthly)
	var insufficient *models.InsufficientDataError
	if errors.As(err, &insufficient) {
		// A single month still has a usable decomposition.
		return result, nil, nil
	}
	if err != nil {
		return models.ForecastResult{}, nil, fmt.Errorf("failed to project expenses: %w", err)
	}
	return result, projection, nil
}

// DailyExpenses is the daily expense series the forecast decomposes. Loan
// rows count only when includeLoan is set, as in the monthly views.
func DailyExpenses(l models.Ledger, includeLoan bool) models.Series {
	if !includeLoan {
		l = l.Filter(func(t models.Transaction) bool { return !t.IsLoan() })
	}
	return aggregate.DailySeries(l, models.DirectionExpense)
}
