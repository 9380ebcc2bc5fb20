package charts

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/aggregate"
	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// MonthlyTrend plots monthly and cumulative cash flow.
func (p *SpecPresenter) MonthlyTrend(m models.MonthlyAggregate) Chart {
	names := []string{"Expense", "Income", "Cumulative Expense", "Cumulative Income", "Accumulative Total"}
	traces := make([]Trace, len(names))
	for i, name := range names {
		kind := KindLine
		if i < 2 {
			kind = KindBar
		}
		traces[i] = Trace{Name: name, Kind: kind, X: make([]string, len(m)), Y: make([]*float64, len(m))}
	}
	for i, b := range m {
		values := []decimal.Decimal{b.Expense, b.Income, b.CumulativeExpense, b.CumulativeIncome, b.NetTotal}
		for j, v := range values {
			traces[j].X[i] = b.Month.String()
			traces[j].Y[i] = nullable(v.InexactFloat64())
		}
	}

	chart := Chart{
		Kind:   KindLine,
		Title:  "Monthly Expenses and Income",
		XTitle: "Month",
		YTitle: p.opts.Currency,
		Traces: traces,
	}
	if ref := p.opts.ReferenceDate; !ref.IsZero() && len(m) > 0 {
		rm := models.MonthOf(ref)
		if !rm.Before(m[0].Month) && !m[len(m)-1].Month.Before(rm) {
			chart.Annotations = append(chart.Annotations, Annotation{X: rm.String(), Text: p.opts.ReferenceLabel})
		}
	}
	return chart
}

// Distribution shows expenses by year, category and subcategory.
func (p *SpecPresenter) Distribution(c models.CategoryAggregate) Chart {
	title := "Expense Distribution"
	if len(c) > 0 {
		lo, hi := c[0].Year, c[0].Year
		for _, ct := range c {
			lo, hi = min(lo, ct.Year), max(hi, ct.Year)
		}
		title = fmt.Sprintf("Expense Distribution for %d - %d", lo, hi)
	}

	if p.opts.DistributionKind == KindBar {
		return Chart{Kind: KindBar, Title: title, XTitle: "Category", YTitle: p.opts.Currency, Traces: categoryBars(c)}
	}

	// Hierarchy: year -> category -> subcategory, parents summed from leaves.
	sums := make(map[string]decimal.Decimal)
	parents := make(map[string]string)
	labels := make(map[string]string)
	var ids []string
	add := func(id, parent, label string, amount decimal.Decimal) {
		if _, ok := labels[id]; !ok {
			ids = append(ids, id)
			labels[id] = label
			parents[id] = parent
		}
		sums[id] = sums[id].Add(amount)
	}
	for _, ct := range c {
		year := strconv.Itoa(ct.Year)
		cat := year + "/" + ct.Category
		add(year, "", year, ct.Total)
		add(cat, year, ct.Category, ct.Total)
		if ct.Subcategory != "" {
			add(cat+"/"+ct.Subcategory, cat, ct.Subcategory, ct.Total)
		}
	}

	tr := Trace{Name: "Expenses", Kind: p.opts.DistributionKind}
	for _, id := range ids {
		tr.IDs = append(tr.IDs, id)
		tr.Labels = append(tr.Labels, labels[id])
		tr.Parents = append(tr.Parents, parents[id])
		tr.Values = append(tr.Values, sums[id].InexactFloat64())
	}
	return Chart{Kind: p.opts.DistributionKind, Title: title, Traces: []Trace{tr}}
}

func categoryBars(c models.CategoryAggregate) []Trace {
	byYear := make(map[int]map[string]decimal.Decimal)
	categorySet := make(map[string]bool)
	for _, ct := range c {
		if byYear[ct.Year] == nil {
			byYear[ct.Year] = make(map[string]decimal.Decimal)
		}
		byYear[ct.Year][ct.Category] = byYear[ct.Year][ct.Category].Add(ct.Total)
		categorySet[ct.Category] = true
	}

	categories := make([]string, 0, len(categorySet))
	for cat := range categorySet {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	traces := make([]Trace, 0, len(years))
	for _, y := range years {
		tr := Trace{Name: strconv.Itoa(y), Kind: KindBar, X: categories, Y: make([]*float64, len(categories))}
		for i, cat := range categories {
			if v, ok := byYear[y][cat]; ok {
				tr.Y[i] = nullable(v.InexactFloat64())
			}
		}
		traces = append(traces, tr)
	}
	return traces
}

// Ratio plots the monthly expense/income ratio. Months without income are
// gaps and do not affect the y range.
func (p *SpecPresenter) Ratio(r []models.RatioPoint) Chart {
	tr := Trace{Name: "Expense/Income", Kind: KindLine, X: make([]string, len(r)), Y: make([]*float64, len(r))}
	for i, pt := range r {
		tr.X[i] = pt.Month.String()
		tr.Y[i] = nullable(pt.Value)
	}
	chart := Chart{Kind: KindLine, Title: "Expense to Income Ratio", XTitle: "Month", YTitle: "Ratio", Traces: []Trace{tr}}
	if lo, hi, ok := aggregate.RatioRange(r); ok {
		chart.YRange = []float64{lo, hi}
	}
	return chart
}

// Decomposition plots the observed series, its components and an optional
// projection.
func (p *SpecPresenter) Decomposition(observed models.Series, f models.ForecastResult, projection models.Series) Chart {
	const layout = "2006-01-02"
	traces := []Trace{
		seriesTrace("Observed", KindLine, observed, layout),
		seriesTrace("Trend", KindLine, f.Trend, layout),
		seriesTrace("Seasonal", KindLine, f.Seasonal, layout),
		seriesTrace("Residual", KindLine, f.Residual, layout),
	}
	if len(projection) > 0 {
		traces = append(traces, seriesTrace("Projection", KindLine, projection, layout))
	}
	return Chart{Kind: KindLine, Title: "Time Series Decomposition", XTitle: "Date", YTitle: "Components", Traces: traces}
}

// CategoryTrend plots one category's expenses per month, one trace per
// subcategory.
func (p *SpecPresenter) CategoryTrend(category string, t []models.CategoryMonthTotal) Chart {
	var months []string
	seenMonth := make(map[string]bool)
	bySub := make(map[string]map[string]decimal.Decimal)
	var subs []string
	for _, ct := range t {
		m := models.Month{Year: ct.Year, Month: ct.Month}.String()
		if !seenMonth[m] {
			seenMonth[m] = true
			months = append(months, m)
		}
		if bySub[ct.Subcategory] == nil {
			bySub[ct.Subcategory] = make(map[string]decimal.Decimal)
			subs = append(subs, ct.Subcategory)
		}
		bySub[ct.Subcategory][m] = bySub[ct.Subcategory][m].Add(ct.Total)
	}
	sort.Strings(subs)

	traces := make([]Trace, 0, len(subs))
	for _, sub := range subs {
		name := sub
		if name == "" {
			name = category
		}
		tr := Trace{Name: name, Kind: KindBar, X: months, Y: make([]*float64, len(months))}
		for i, m := range months {
			if v, ok := bySub[sub][m]; ok {
				tr.Y[i] = nullable(v.InexactFloat64())
			}
		}
		traces = append(traces, tr)
	}
	return Chart{
		Kind:   KindBar,
		Title:  fmt.Sprintf("Expense Trend by Month for %s", category),
		XTitle: "Month",
		YTitle: fmt.Sprintf("Expense (%s)", p.opts.Currency),
		Traces: traces,
	}
}

// Heatmap lays expenses out as day-of-month by month (daily) or month by
// year (monthly).
func (p *SpecPresenter) Heatmap(cells []models.HeatCell, period aggregate.HeatmapPeriod) Chart {
	var columns []string
	var rowOf func(models.HeatCell) string
	var colOf func(models.HeatCell) int
	if period == aggregate.HeatmapMonthly {
		for m := time.January; m <= time.December; m++ {
			columns = append(columns, m.String()[:3])
		}
		rowOf = func(c models.HeatCell) string { return strconv.Itoa(c.Year) }
		colOf = func(c models.HeatCell) int { return int(c.Month) - 1 }
	} else {
		for d := 1; d <= 31; d++ {
			columns = append(columns, strconv.Itoa(d))
		}
		rowOf = func(c models.HeatCell) string { return models.Month{Year: c.Year, Month: c.Month}.String() }
		colOf = func(c models.HeatCell) int { return c.Day - 1 }
	}

	tr := Trace{Name: "Expenses", Kind: KindHeatmap, X: columns}
	rowIndex := make(map[string]int)
	for _, c := range cells {
		row := rowOf(c)
		idx, ok := rowIndex[row]
		if !ok {
			idx = len(tr.Rows)
			rowIndex[row] = idx
			tr.Rows = append(tr.Rows, row)
			tr.Z = append(tr.Z, make([]*float64, len(columns)))
		}
		if col := colOf(c); col >= 0 && col < len(columns) {
			tr.Z[idx][col] = nullable(c.Total.InexactFloat64())
		}
	}
	return Chart{Kind: KindHeatmap, Title: fmt.Sprintf("Expense Heatmap (%s)", period), Traces: []Trace{tr}}
}
