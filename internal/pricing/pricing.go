// Package pricing derives cart totals from line items.
//
// Unit prices are VAT-inclusive. Subtotal is the gross sum of the lines; the
// VAT share is back-calculated from it. Shipping is a flat fee waived once the
// subtotal reaches the free-shipping threshold.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type Policy struct {
	VATRate               decimal.Decimal
	FlatShipping          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		VATRate:               decimal.RequireFromString("0.24"),
		FlatShipping:          decimal.RequireFromString("4.90"),
		FreeShippingThreshold: decimal.NewFromInt(50),
	}
}

type Summary struct {
	Subtotal     model.Money `json:"subtotal"`
	NetSubtotal  model.Money `json:"netSubtotal"`
	VATAmount    model.Money `json:"vatAmount"`
	ShippingCost model.Money `json:"shippingCost"`
	Total        model.Money `json:"total"`
	ItemCount    int         `json:"itemCount"`
	UnitCount    int         `json:"unitCount"`
}

// Subtotal is Σ price×quantity over lines with a positive quantity.
func Subtotal(items []model.CartItem) model.Money {
	sum := decimal.Zero
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// ItemCount is the number of distinct product lines.
func ItemCount(items []model.CartItem) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.Quantity >= 1 {
			seen[it.ProductID] = struct{}{}
		}
	}
	return len(seen)
}

// UnitCount is the summed quantity of all lines.
func UnitCount(items []model.CartItem) int {
	n := 0
	for _, it := range items {
		if it.Quantity >= 1 {
			n += it.Quantity
		}
	}
	return n
}

func (p Policy) NetSubtotal(items []model.CartItem) model.Money {
	return Subtotal(items).Div(decimal.NewFromInt(1).Add(p.VATRate)).Round(2)
}

func (p Policy) VATAmount(items []model.CartItem) model.Money {
	return Subtotal(items).Sub(p.NetSubtotal(items))
}

func (p Policy) ShippingCost(items []model.CartItem) model.Money {
	subtotal := Subtotal(items)
	if subtotal.IsZero() || subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShipping
}

func (p Policy) Total(items []model.CartItem) model.Money {
	return Subtotal(items).Add(p.ShippingCost(items))
}

func (p Policy) Summarize(items []model.CartItem) Summary {
	return Summary{
		Subtotal:     Subtotal(items),
		NetSubtotal:  p.NetSubtotal(items),
		VATAmount:    p.VATAmount(items),
		ShippingCost: p.ShippingCost(items),
		Total:        p.Total(items),
		ItemCount:    ItemCount(items),
		UnitCount:    UnitCount(items),
	}
}
