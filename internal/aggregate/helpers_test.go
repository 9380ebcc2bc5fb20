package aggregate

import (
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expense(t time.Time, amount int64, category, subcategory string) models.Transaction {
	return models.Transaction{Date: t, Amount: decimal.NewFromInt(amount), Direction: models.DirectionExpense, Category: category, Subcategory: subcategory}
}

func income(t time.Time, amount int64, category, subcategory string) models.Transaction {
	return models.Transaction{Date: t, Amount: decimal.NewFromInt(amount), Direction: models.DirectionIncome, Category: category, Subcategory: subcategory}
}

// scenarioLedger is the three-row example used throughout the dashboard docs.
func scenarioLedger() models.Ledger {
	return models.NewLedger([]models.Transaction{
		expense(date(2024, 1, 5), 100, "Food", ""),
		income(date(2024, 1, 20), 50, "Salary", ""),
		expense(date(2024, 2, 1), 30, "Food", ""),
	})
}

func mixedLedger() models.Ledger {
	return models.NewLedger([]models.Transaction{
		expense(date(2023, 11, 3), 200, "Housing", "Rent"),
		income(date(2023, 11, 25), 1000, "Salary", ""),
		expense(date(2023, 12, 10), 40, "Food", "Groceries"),
		expense(date(2023, 12, 12), 500, "Finance", models.SubcategoryLoan),
		income(date(2024, 1, 2), 300, "Finance", models.SubcategoryLoan),
		expense(date(2024, 1, 15), 60, "Food", "Groceries"),
		expense(date(2024, 1, 16), 25, "Food", "Restaurant"),
		{Date: date(2024, 1, 17), Amount: decimal.NewFromInt(999), Direction: "Transfer-Out", Category: "Savings"},
		income(date(2024, 3, 25), 1000, "Salary", ""),
	})
}

func sumExpenses(l models.Ledger, includeLoan bool) decimal.Decimal {
	total := decimal.Zero
	l.Each(func(t models.Transaction) {
		if t.Direction == models.DirectionExpense && (includeLoan || !t.IsLoan()) {
			total = total.Add(t.Amount)
		}
	})
	return total
}
