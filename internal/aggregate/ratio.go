package aggregate

import (
	"math"

	"github.com/rocjay1/ledger-dashboard/internal/models"
)

// ExpenseIncomeRatio divides each month's expense by its income. Months
// without income get NaN.
func ExpenseIncomeRatio(m models.MonthlyAggregate) []models.RatioPoint {
	out := make([]models.RatioPoint, len(m))
	for i, b := range m {
		v := math.NaN()
		if !b.Income.IsZero() {
			v = b.Expense.Div(b.Income).InexactFloat64()
		}
		out[i] = models.RatioPoint{Month: b.Month, Value: v}
	}
	return out
}

// RatioRange returns the smallest and largest defined ratio. ok is false when
// no month has a defined ratio.
func RatioRange(points []models.RatioPoint) (lo, hi float64, ok bool) {
	for _, p := range points {
		if !p.Defined() {
			continue
		}
		if !ok {
			lo, hi, ok = p.Value, p.Value, true
			continue
		}
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	return lo, hi, ok
}
