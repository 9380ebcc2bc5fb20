package aggregate

import (
	"testing"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	l := models.NewLedger([]models.Transaction{
		expense(date(2023, 3, 1), 10, "Food", "Groceries"),
		expense(date(2023, 4, 1), 15, "Food", "Groceries"),
		expense(date(2024, 1, 1), 7, "Food", "Groceries"),
		expense(date(2024, 1, 2), 30, "Food", "Restaurant"),
		expense(date(2024, 1, 3), 100, "Bills", "Power"),
		income(date(2024, 1, 4), 1000, "Salary", ""),
	})

	c := Categories(l)
	require.Len(t, c, 4, "only observed combinations, no zero fill")

	assert.Equal(t, "Bills", c[0].Category)
	assert.Equal(t, "Food", c[1].Category)
	assert.Equal(t, 2023, c[1].Year)
	assertDecimal(t, 25, c[1].Total, "groceries 2023")
	assert.Equal(t, 2024, c[2].Year)
	assertDecimal(t, 7, c[2].Total, "groceries 2024")
	assert.Equal(t, "Restaurant", c[3].Subcategory)
}

func TestCategories_IgnoresIncome(t *testing.T) {
	l := models.NewLedger([]models.Transaction{income(date(2024, 1, 4), 1000, "Salary", "")})
	assert.Empty(t, Categories(l))
}

func TestExpenseCategories(t *testing.T) {
	assert.Equal(t, []string{"Housing", "Food", "Finance"}, ExpenseCategories(mixedLedger()))
}

func TestCategoryTrend(t *testing.T) {
	l := models.NewLedger([]models.Transaction{
		expense(date(2024, 2, 1), 5, "Food", "Restaurant"),
		expense(date(2024, 1, 15), 60, "Food", "Groceries"),
		expense(date(2024, 1, 20), 40, "Food", "Groceries"),
		expense(date(2024, 1, 16), 25, "Food", "Restaurant"),
		expense(date(2024, 1, 16), 900, "Housing", "Rent"),
	})

	trend := CategoryTrend(l, "Food")
	require.Len(t, trend, 3)

	assert.Equal(t, time.January, trend[0].Month)
	assert.Equal(t, "Groceries", trend[0].Subcategory)
	assertDecimal(t, 100, trend[0].Total, "january groceries")
	assert.Equal(t, "Restaurant", trend[1].Subcategory)
	assert.Equal(t, time.February, trend[2].Month)

	assert.Empty(t, CategoryTrend(l, "Travel"))
}
