package aggregate

import (
	"testing"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySeries_ZeroFilled(t *testing.T) {
	l := models.NewLedger([]models.Transaction{
		expense(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 10, "Food", ""),
		expense(time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), 5, "Food", ""),
		income(date(2024, 1, 2), 100, "Salary", ""),
		expense(date(2024, 1, 4), 7, "Food", ""),
	})

	s := DailySeries(l, models.DirectionExpense)
	require.Len(t, s, 4)
	assert.Equal(t, []float64{15, 0, 0, 7}, s.Values())
	assert.True(t, s[1].Date.Equal(date(2024, 1, 2)))

	assert.Empty(t, DailySeries(models.Ledger{}, models.DirectionExpense))
}

func TestDailySeries_MixedLocations(t *testing.T) {
	plus2 := time.FixedZone("UTC+2", 2*3600)
	l := models.NewLedger([]models.Transaction{
		expense(date(2024, 1, 1), 10, "Food", ""),
		expense(time.Date(2024, 1, 2, 10, 0, 0, 0, plus2), 20, "Food", ""),
		expense(date(2024, 1, 3), 5, "Food", ""),
	})

	s := DailySeries(l, models.DirectionExpense)
	require.Len(t, s, 3)
	assert.Equal(t, []float64{10, 20, 5}, s.Values())
}

func TestMonthlySeries_FillsGaps(t *testing.T) {
	m := Monthly(mixedLedger(), MonthlyOptions{})

	s, err := MonthlySeries(m, models.DirectionIncome)
	require.NoError(t, err)
	require.Len(t, s, 5, "november through march")
	assert.Equal(t, []float64{1000, 0, 0, 0, 1000}, s.Values())
	assert.True(t, s[3].Date.Equal(date(2024, 2, 1)))

	s, err = MonthlySeries(m, models.DirectionExpense)
	require.NoError(t, err)
	assert.Equal(t, []float64{200, 40, 85, 0, 0}, s.Values())

	_, err = MonthlySeries(m, "Transfer-Out")
	assert.Error(t, err)
}

func TestSubcategorySeries(t *testing.T) {
	l := models.NewLedger([]models.Transaction{
		expense(date(2023, 12, 1), 99, "Food", "Groceries"),
		expense(date(2024, 1, 10), 10, "Food", "Groceries"),
		expense(date(2024, 1, 20), 5, "Food", "Groceries"),
		expense(date(2024, 3, 2), 8, "Food", "Groceries"),
		expense(date(2024, 4, 2), 50, "Food", "Restaurant"),
	})

	s := SubcategorySeries(l, "Groceries", 2024)
	assert.Equal(t, []float64{15, 0, 8}, s.Values())
	assert.Empty(t, SubcategorySeries(l, "Groceries", 2022))
}

func TestHeatmap(t *testing.T) {
	l := mixedLedger()

	daily := Heatmap(l, HeatmapDaily)
	require.Len(t, daily, 5)
	assert.Equal(t, 3, daily[0].Day)
	assert.Equal(t, 16, daily[4].Day)

	monthly := Heatmap(l, HeatmapMonthly)
	require.Len(t, monthly, 3)
	assert.Equal(t, 0, monthly[0].Day)
	assertDecimal(t, 540, monthly[1].Total, "december incl. loan")
	assertDecimal(t, 85, monthly[2].Total, "january")
}

func TestParseHeatmapPeriod(t *testing.T) {
	p, err := ParseHeatmapPeriod("")
	require.NoError(t, err)
	assert.Equal(t, HeatmapDaily, p)

	p, err = ParseHeatmapPeriod("monthly")
	require.NoError(t, err)
	assert.Equal(t, HeatmapMonthly, p)

	_, err = ParseHeatmapPeriod("weekly")
	assert.Error(t, err)
}
