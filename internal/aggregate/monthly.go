// Package aggregate derives the dashboard views from a ledger. Every function
// is pure: it reads the ledger and returns a freshly built result.
package aggregate

import (
	"sort"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// MonthlyOptions controls which transactions count as cash flow.
type MonthlyOptions struct {
	// IncludeLoan counts transactions in the Loan subcategory. Off by default.
	IncludeLoan bool
}

// Monthly sums expenses and income per calendar month and derives running
// totals. Months observed on either side are present, the missing side at zero.
func Monthly(l models.Ledger, opts MonthlyOptions) models.MonthlyAggregate {
	expense := make(map[models.Month]decimal.Decimal)
	income := make(map[models.Month]decimal.Decimal)
	seen := make(map[models.Month]bool)

	l.Each(func(t models.Transaction) {
		if !opts.IncludeLoan && t.IsLoan() {
			return
		}
		m := models.MonthOf(t.Date)
		switch t.Direction {
		case models.DirectionExpense:
			expense[m] = expense[m].Add(t.Amount)
		case models.DirectionIncome:
			income[m] = income[m].Add(t.Amount)
		default:
			return
		}
		seen[m] = true
	})

	months := make([]models.Month, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make(models.MonthlyAggregate, len(months))
	cumExpense, cumIncome := decimal.Zero, decimal.Zero
	for i, m := range months {
		cumExpense = cumExpense.Add(expense[m])
		cumIncome = cumIncome.Add(income[m])
		out[i] = models.MonthlyBucket{
			Month:             m,
			Expense:           expense[m],
			Income:            income[m],
			CumulativeExpense: cumExpense,
			CumulativeIncome:  cumIncome,
			NetTotal:          cumIncome.Sub(cumExpense),
		}
	}
	return out
}

// Totals sums income and expense over the whole ledger.
func Totals(l models.Ledger, opts MonthlyOptions) models.Totals {
	var totals models.Totals
	l.Each(func(t models.Transaction) {
		if !opts.IncludeLoan && t.IsLoan() {
			return
		}
		switch t.Direction {
		case models.DirectionExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		case models.DirectionIncome:
			totals.Income = totals.Income.Add(t.Amount)
		}
	})
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals
}
