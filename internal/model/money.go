package model

import "github.com/shopspring/decimal"

func init() {
	// The marketplace backend speaks JSON numbers for money, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Money is a VAT-inclusive amount in the shop currency.
type Money = decimal.Decimal

func NewMoney(v float64) Money { return decimal.NewFromFloat(v) }
