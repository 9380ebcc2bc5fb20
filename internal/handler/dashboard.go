package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rocjay1/ledger-dashboard/internal/aggregate"
	"github.com/rocjay1/ledger-dashboard/internal/charts"
	"github.com/rocjay1/ledger-dashboard/internal/dashboard"
	"github.com/rocjay1/ledger-dashboard/internal/forecast"
	"github.com/rocjay1/ledger-dashboard/internal/models"
)

const (
	defaultLargest = 10
	maxLargest     = 100
)

// requestError marks a bad query parameter.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// dashboardOptions applies per-request overrides to the configured defaults.
func (d *Dependencies) dashboardOptions(q url.Values) (dashboard.Options, error) {
	opts := d.Config.DashboardOptions()
	if v := q.Get("includeLoan"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, badRequest("invalid includeLoan %q", v)
		}
		opts.IncludeLoan = b
	}
	if v := q.Get("period"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 2 {
			return opts, badRequest("invalid period %q: must be an integer of at least 2", v)
		}
		opts.Period = p
	}
	return opts, nil
}

func (d *Dependencies) presenter(q url.Values) (charts.Presenter, error) {
	opts := d.Config.ChartOptions()
	switch kind := charts.Kind(q.Get("chart")); kind {
	case "":
	case charts.KindSunburst, charts.KindTreemap, charts.KindBar:
		opts.DistributionKind = kind
	default:
		return nil, badRequest("invalid chart %q: must be sunburst, treemap or bar", kind)
	}
	return charts.NewSpecPresenter(opts), nil
}

func writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		WriteError(w, http.StatusBadRequest, reqErr.msg)
		return
	}
	WritePipelineError(w, err)
}

// requestLedger loads the ledger named by the blob query parameter.
func (d *Dependencies) requestLedger(r *http.Request) (models.Ledger, error) {
	blobName := r.URL.Query().Get("blob")
	if blobName == "" {
		return models.Ledger{}, badRequest("missing blob parameter")
	}
	l, report, err := d.loadLedger(r.Context(), blobName)
	if err != nil {
		return models.Ledger{}, err
	}
	if report.RowsDropped > 0 {
		slog.Info("rows dropped while loading ledger", "blob_name", blobName, "rows_dropped", report.RowsDropped)
	}
	return l, nil
}

// HandleDashboard returns every view of an uploaded ledger with chart specs.
func (d *Dependencies) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := d.dashboardOptions(q)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	if opts.Presenter, err = d.presenter(q); err != nil {
		writeRequestError(w, err)
		return
	}

	l, err := d.requestLedger(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	result, err := dashboard.Build(r.Context(), l, opts)
	if err != nil {
		WritePipelineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// HandleDashboardView returns a single view selected by the {view} path value.
func (d *Dependencies) HandleDashboardView(w http.ResponseWriter, r *http.Request) {
	view := r.PathValue("view")
	q := r.URL.Query()

	opts, err := d.dashboardOptions(q)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	p, err := d.presenter(q)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	build, ok := views[view]
	if !ok {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("unknown view %q", view))
		return
	}

	l, err := d.requestLedger(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	body, err := build(viewRequest{ledger: l, query: q, opts: opts, presenter: p})
	if err != nil {
		writeRequestError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, body)
}

type viewRequest struct {
	ledger    models.Ledger
	query     url.Values
	opts      dashboard.Options
	presenter charts.Presenter
}

var views = map[string]func(viewRequest) (any, error){
	"monthly":        monthlyView,
	"categories":     categoriesView,
	"ratio":          ratioView,
	"forecast":       forecastView,
	"category-trend": categoryTrendView,
	"subcategory":    subcategoryView,
	"heatmap":        heatmapView,
	"largest":        largestView,
	"search":         searchView,
	"suggestions":    suggestionsView,
}

func monthlyView(v viewRequest) (any, error) {
	opts := aggregate.MonthlyOptions{IncludeLoan: v.opts.IncludeLoan}
	m := aggregate.Monthly(v.ledger, opts)
	return map[string]any{
		"monthly": m,
		"totals":  aggregate.Totals(v.ledger, opts),
		"chart":   v.presenter.MonthlyTrend(m),
	}, nil
}

func categoriesView(v viewRequest) (any, error) {
	c := aggregate.Categories(v.ledger)
	return map[string]any{
		"categories":         c,
		"expense_categories": aggregate.ExpenseCategories(v.ledger),
		"chart":              v.presenter.Distribution(c),
	}, nil
}

func ratioView(v viewRequest) (any, error) {
	ratio := aggregate.ExpenseIncomeRatio(aggregate.Monthly(v.ledger, aggregate.MonthlyOptions{IncludeLoan: v.opts.IncludeLoan}))
	body := map[string]any{
		"ratio": ratio,
		"range": nil,
		"chart": v.presenter.Ratio(ratio),
	}
	if lo, hi, ok := aggregate.RatioRange(ratio); ok {
		body["range"] = []float64{lo, hi}
	}
	return body, nil
}

func forecastView(v viewRequest) (any, error) {
	result, projection, err := dashboard.Forecast(v.ledger, v.opts)
	if err != nil {
		return nil, err
	}
	observed := dashboard.DailyExpenses(v.ledger, v.opts.IncludeLoan)
	return map[string]any{
		"forecast":   result,
		"projection": projection,
		"chart":      v.presenter.Decomposition(observed, result, projection),
	}, nil
}

func categoryTrendView(v viewRequest) (any, error) {
	category := v.query.Get("category")
	if category == "" {
		return nil, badRequest("missing category parameter")
	}
	trend := aggregate.CategoryTrend(v.ledger, category)
	return map[string]any{
		"category": category,
		"trend":    trend,
		"chart":    v.presenter.CategoryTrend(category, trend),
	}, nil
}

func subcategoryView(v viewRequest) (any, error) {
	name := v.query.Get("name")
	if name == "" {
		return nil, badRequest("missing name parameter")
	}
	year, err := strconv.Atoi(v.query.Get("year"))
	if err != nil {
		return nil, badRequest("invalid year %q", v.query.Get("year"))
	}

	series := aggregate.SubcategorySeries(v.ledger, name, year)
	body := map[string]any{
		"subcategory": name,
		"year":        year,
		"series":      series,
		"projection":  models.Series{},
	}
	projection, err := forecast.Project(series, dashboard.DefaultProjectionSize, forecast.Monthly)
	var insufficient *models.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
	case err != nil:
		return nil, err
	default:
		body["projection"] = projection
	}
	return body, nil
}

func heatmapView(v viewRequest) (any, error) {
	period, err := aggregate.ParseHeatmapPeriod(v.query.Get("type"))
	if err != nil {
		return nil, badRequest("%v", err)
	}
	cells := aggregate.Heatmap(v.ledger, period)
	return map[string]any{
		"period": period,
		"cells":  cells,
		"chart":  v.presenter.Heatmap(cells, period),
	}, nil
}

func largestView(v viewRequest) (any, error) {
	direction := models.DirectionExpense
	if s := v.query.Get("direction"); s != "" {
		direction = models.Direction(s)
	}
	n := defaultLargest
	if s := v.query.Get("n"); s != "" {
		var err error
		if n, err = strconv.Atoi(s); err != nil || n < 1 || n > maxLargest {
			return nil, badRequest("invalid n %q: must be between 1 and %d", s, maxLargest)
		}
	}
	return map[string]any{
		"direction":    direction,
		"transactions": aggregate.Largest(v.ledger, direction, n),
	}, nil
}

func searchView(v viewRequest) (any, error) {
	q := v.query.Get("q")
	if q == "" {
		return nil, badRequest("missing q parameter")
	}
	matches := aggregate.Search(v.ledger, q)
	return map[string]any{
		"query":        q,
		"count":        len(matches),
		"transactions": matches,
	}, nil
}

func suggestionsView(v viewRequest) (any, error) {
	return map[string]any{"suggestions": aggregate.Suggestions(v.ledger)}, nil
}
