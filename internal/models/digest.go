package models

import "github.com/shopspring/decimal"

// Digest summarises one month of a ledger.
type Digest struct {
	Month         Month           `json:"month"`
	Income        decimal.Decimal `json:"income"`
	Expense       decimal.Decimal `json:"expense"`
	Net           decimal.Decimal `json:"net"`
	Ratio         RatioPoint      `json:"ratio"`
	TopCategories []CategoryTotal `json:"top_categories"`
	Largest       []Transaction   `json:"largest"`
}
