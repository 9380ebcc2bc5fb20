package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// DailySeries returns the per-day totals of one direction from the first to
// the last ledger day, with zero on days without transactions.
func DailySeries(l models.Ledger, direction models.Direction) models.Series {
	if l.Len() == 0 {
		return models.Series{}
	}

	sums := make(map[dayKey]decimal.Decimal)
	l.Each(func(t models.Transaction) {
		if t.Direction == direction {
			k := dayOf(t.Date)
			sums[k] = sums[k].Add(t.Amount)
		}
	})

	var out models.Series
	for d, end := day(l.Start()), dayOf(l.End()); !dayOf(d).after(end); d = d.AddDate(0, 0, 1) {
		out = append(out, models.Point{Date: d, Value: sums[dayOf(d)].InexactFloat64()})
	}
	return out
}

// dayKey is a calendar day independent of the time zone of the date it came from.
type dayKey struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) dayKey {
	return dayKey{t.Year(), t.Month(), t.Day()}
}

func (k dayKey) after(o dayKey) bool {
	if k.year != o.year {
		return k.year > o.year
	}
	if k.month != o.month {
		return k.month > o.month
	}
	return k.day > o.day
}

// MonthlySeries returns one direction of a monthly aggregate as a gap-free
// series, filling unobserved months between the first and last with zero.
func MonthlySeries(m models.MonthlyAggregate, direction models.Direction) (models.Series, error) {
	if direction != models.DirectionExpense && direction != models.DirectionIncome {
		return nil, fmt.Errorf("unsupported direction %q", direction)
	}
	if len(m) == 0 {
		return models.Series{}, nil
	}

	byMonth := make(map[models.Month]decimal.Decimal, len(m))
	for _, b := range m {
		if direction == models.DirectionExpense {
			byMonth[b.Month] = b.Expense
		} else {
			byMonth[b.Month] = b.Income
		}
	}

	var out models.Series
	last := m[len(m)-1].Month
	for cur := m[0].Month; !last.Before(cur); cur = cur.Next() {
		out = append(out, models.Point{Date: cur.Time(), Value: byMonth[cur].InexactFloat64()})
	}
	return out, nil
}

// SubcategorySeries returns the monthly expenses of one subcategory in one
// year, from January up to the last month with a matching expense.
func SubcategorySeries(l models.Ledger, subcategory string, year int) models.Series {
	sums := make(map[time.Month]decimal.Decimal)
	var last time.Month
	l.Each(func(t models.Transaction) {
		if t.Direction != models.DirectionExpense || t.Subcategory != subcategory || t.Date.Year() != year {
			return
		}
		sums[t.Date.Month()] = sums[t.Date.Month()].Add(t.Amount)
		if t.Date.Month() > last {
			last = t.Date.Month()
		}
	})

	out := models.Series{}
	for m := time.January; m <= last; m++ {
		out = append(out, models.Point{
			Date:  models.Month{Year: year, Month: m}.Time(),
			Value: sums[m].InexactFloat64(),
		})
	}
	return out
}

// HeatmapPeriod selects the cell size of Heatmap.
type HeatmapPeriod string

const (
	HeatmapDaily   HeatmapPeriod = "daily"
	HeatmapMonthly HeatmapPeriod = "monthly"
)

// ParseHeatmapPeriod validates a period name; empty means daily.
func ParseHeatmapPeriod(s string) (HeatmapPeriod, error) {
	switch HeatmapPeriod(s) {
	case "", HeatmapDaily:
		return HeatmapDaily, nil
	case HeatmapMonthly:
		return HeatmapMonthly, nil
	}
	return "", fmt.Errorf("unknown heatmap period %q", s)
}

// Heatmap sums expenses per day or per month, in date order.
func Heatmap(l models.Ledger, period HeatmapPeriod) []models.HeatCell {
	type key struct {
		year  int
		month time.Month
		day   int
	}
	sums := make(map[key]decimal.Decimal)
	l.Each(func(t models.Transaction) {
		if t.Direction != models.DirectionExpense {
			return
		}
		k := key{t.Date.Year(), t.Date.Month(), 0}
		if period != HeatmapMonthly {
			k.day = t.Date.Day()
		}
		sums[k] = sums[k].Add(t.Amount)
	})

	out := make([]models.HeatCell, 0, len(sums))
	for k, total := range sums {
		out = append(out, models.HeatCell{Year: k.year, Month: k.month, Day: k.day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
	return out
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
