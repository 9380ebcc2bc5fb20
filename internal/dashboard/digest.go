package dashboard

import (
	"sort"

	"github.com/rocjay1/ledger-dashboard/internal/aggregate"
	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// Digest summarises the most recent month of l with its top n expense
// categories and n largest expenses.
func Digest(l models.Ledger, includeLoan bool, n int) models.Digest {
	if l.Len() == 0 {
		return models.Digest{}
	}
	month := models.MonthOf(l.End())
	recent := l.Filter(func(t models.Transaction) bool {
		return models.MonthOf(t.Date) == month && (includeLoan || !t.IsLoan())
	})

	totals := aggregate.Totals(recent, aggregate.MonthlyOptions{IncludeLoan: includeLoan})
	d := models.Digest{
		Month:   month,
		Income:  totals.Income,
		Expense: totals.Expense,
		Net:     totals.Net,
		Largest: aggregate.Largest(recent, models.DirectionExpense, n),
	}
	if ratio := aggregate.ExpenseIncomeRatio(aggregate.Monthly(recent, aggregate.MonthlyOptions{IncludeLoan: includeLoan})); len(ratio) > 0 {
		d.Ratio = ratio[0]
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, c := range aggregate.Categories(recent) {
		byCategory[c.Category] = byCategory[c.Category].Add(c.Total)
	}
	for cat, total := range byCategory {
		d.TopCategories = append(d.TopCategories, models.CategoryTotal{Category: cat, Year: month.Year, Total: total})
	}
	sort.Slice(d.TopCategories, func(i, j int) bool {
		a, b := d.TopCategories[i], d.TopCategories[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Category < b.Category
	})
	if len(d.TopCategories) > n {
		d.TopCategories = d.TopCategories[:n]
	}
	return d
}
