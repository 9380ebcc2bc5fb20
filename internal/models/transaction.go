package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Direction marks a transaction as money coming in or going out.
type Direction string

const (
	DirectionIncome  Direction = "Income"
	DirectionExpense Direction = "Expense"
)

// SubcategoryLoan tags loan repayments, excluded from cash flow by default.
const SubcategoryLoan = "Loan"

// Transaction represents a single row of the exported ledger.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"direction"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Note        string          `json:"note,omitempty"`
	Description string          `json:"description,omitempty"`
}

// IsLoan reports whether the transaction is tagged with the Loan subcategory.
func (t Transaction) IsLoan() bool {
	return t.Subcategory == SubcategoryLoan
}

// Ledger is the cleaned, date-ordered sequence of transactions.
// The zero value is an empty ledger; use NewLedger to build one.
type Ledger struct {
	txns []Transaction
}

// NewLedger copies txns and sorts the copy by date, keeping input order for equal dates.
func NewLedger(txns []Transaction) Ledger {
	sorted := make([]Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return Ledger{txns: sorted}
}

// Len returns the number of transactions.
func (l Ledger) Len() int {
	return len(l.txns)
}

// Transactions returns a copy of the ledger rows.
func (l Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.txns))
	copy(out, l.txns)
	return out
}

// Each calls fn for every transaction in date order.
func (l Ledger) Each(fn func(Transaction)) {
	for _, t := range l.txns {
		fn(t)
	}
}

// Start returns the date of the earliest transaction.
func (l Ledger) Start() time.Time {
	if len(l.txns) == 0 {
		return time.Time{}
	}
	return l.txns[0].Date
}

// End returns the date of the latest transaction.
func (l Ledger) End() time.Time {
	if len(l.txns) == 0 {
		return time.Time{}
	}
	return l.txns[len(l.txns)-1].Date
}

// Filter returns a new ledger holding the transactions keep accepts.
func (l Ledger) Filter(keep func(Transaction) bool) Ledger {
	var out []Transaction
	for _, t := range l.txns {
		if keep(t) {
			out = append(out, t)
		}
	}
	return Ledger{txns: out}
}
