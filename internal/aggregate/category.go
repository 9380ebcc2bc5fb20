package aggregate

import (
	"sort"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

type categoryKey struct {
	category    string
	subcategory string
	year        int
}

// Categories sums expenses by (category, subcategory, year). Only observed
// combinations appear; the result is sorted by category, subcategory, year.
func Categories(l models.Ledger) models.CategoryAggregate {
	sums := make(map[categoryKey]decimal.Decimal)
	l.Each(func(t models.Transaction) {
		if t.Direction != models.DirectionExpense {
			return
		}
		k := categoryKey{t.Category, t.Subcategory, t.Date.Year()}
		sums[k] = sums[k].Add(t.Amount)
	})

	out := make(models.CategoryAggregate, 0, len(sums))
	for k, total := range sums {
		out = append(out, models.CategoryTotal{
			Category:    k.category,
			Subcategory: k.subcategory,
			Year:        k.year,
			Total:       total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Subcategory != b.Subcategory {
			return a.Subcategory < b.Subcategory
		}
		return a.Year < b.Year
	})
	return out
}

// ExpenseCategories lists the distinct expense categories in first-seen order.
func ExpenseCategories(l models.Ledger) []string {
	seen := make(map[string]bool)
	out := []string{}
	l.Each(func(t models.Transaction) {
		if t.Direction != models.DirectionExpense || seen[t.Category] {
			return
		}
		seen[t.Category] = true
		out = append(out, t.Category)
	})
	return out
}

type categoryMonthKey struct {
	year        int
	month       time.Month
	subcategory string
}

// CategoryTrend sums the expenses of one category by year, month and
// subcategory, sorted in that order.
func CategoryTrend(l models.Ledger, category string) []models.CategoryMonthTotal {
	sums := make(map[categoryMonthKey]decimal.Decimal)
	l.Each(func(t models.Transaction) {
		if t.Direction != models.DirectionExpense || t.Category != category {
			return
		}
		k := categoryMonthKey{t.Date.Year(), t.Date.Month(), t.Subcategory}
		sums[k] = sums[k].Add(t.Amount)
	})

	out := make([]models.CategoryMonthTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, models.CategoryMonthTotal{
			Year:        k.year,
			Month:       k.month,
			Subcategory: k.subcategory,
			Total:       total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Subcategory < b.Subcategory
	})
	return out
}
