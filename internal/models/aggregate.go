package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Month is a calendar (year, month) bucket key.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the bucket containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m sorts before o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the bucket as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MonthlyBucket holds the cash flow of one calendar month.
type MonthlyBucket struct {
	Month             Month           `json:"month"`
	Expense           decimal.Decimal `json:"expense"`
	Income            decimal.Decimal `json:"income"`
	CumulativeExpense decimal.Decimal `json:"cumulative_expense"`
	CumulativeIncome  decimal.Decimal `json:"cumulative_income"`
	NetTotal          decimal.Decimal `json:"net_total"`
}

// MonthlyAggregate is the ascending sequence of monthly buckets.
type MonthlyAggregate []MonthlyBucket

// CategoryTotal is the expense total of one (category, subcategory, year).
type CategoryTotal struct {
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Year        int             `json:"year"`
	Total       decimal.Decimal `json:"total"`
}

// CategoryAggregate lists observed category combinations only.
type CategoryAggregate []CategoryTotal

// CategoryMonthTotal is the expense total of one subcategory in one month.
type CategoryMonthTotal struct {
	Year        int             `json:"year"`
	Month       time.Month      `json:"month"`
	Subcategory string          `json:"subcategory"`
	Total       decimal.Decimal `json:"total"`
}

// RatioPoint is the expense/income ratio of one month. Value is NaN when
// the month had no income.
type RatioPoint struct {
	Month Month   `json:"month"`
	Value float64 `json:"value"`
}

// Defined reports whether the ratio has a value.
func (r RatioPoint) Defined() bool {
	return !math.IsNaN(r.Value)
}

// MarshalJSON encodes an undefined ratio as null.
func (r RatioPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Month Month    `json:"month"`
		Value *float64 `json:"value"`
	}{Month: r.Month, Value: nullable(r.Value)})
}

// HeatCell is one cell of the expense heatmap. Day is zero for monthly cells.
type HeatCell struct {
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Day   int             `json:"day,omitempty"`
	Total decimal.Decimal `json:"total"`
}

// Totals is the whole-ledger cash flow.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
