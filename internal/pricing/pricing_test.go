package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

func line(id string, price string, qty int) model.CartItem {
	return model.CartItem{ProductID: id, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestSummarize_BelowThreshold(t *testing.T) {
	items := []model.CartItem{line("p1", "10", 2), line("p2", "20", 1)}

	s := DefaultPolicy().Summarize(items)

	assert.Equal(t, "40", s.Subtotal.String())
	assert.Equal(t, "4.9", s.ShippingCost.String())
	assert.Equal(t, "44.9", s.Total.String())
	assert.Equal(t, "32.26", s.NetSubtotal.String())
	assert.Equal(t, "7.74", s.VATAmount.String())
	assert.Equal(t, 2, s.ItemCount)
	assert.Equal(t, 3, s.UnitCount)
}

func TestShippingCost_FreeAtThreshold(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.ShippingCost([]model.CartItem{line("p1", "50", 1)}).IsZero())
	assert.True(t, p.ShippingCost([]model.CartItem{line("p1", "30", 3)}).IsZero())
	assert.Equal(t, "4.9", p.ShippingCost([]model.CartItem{line("p1", "49.99", 1)}).String())
}

func TestEmptyCart(t *testing.T) {
	s := DefaultPolicy().Summarize(nil)

	assert.True(t, s.Subtotal.IsZero())
	assert.True(t, s.ShippingCost.IsZero())
	assert.True(t, s.Total.IsZero())
	assert.Equal(t, 0, s.ItemCount)
}

func TestTotalNeverBelowSubtotal(t *testing.T) {
	p := DefaultPolicy()
	carts := [][]model.CartItem{
		nil,
		{line("a", "0.01", 1)},
		{line("a", "12.5", 3), line("b", "7", 2)},
		{line("a", "199", 1)},
	}
	for _, items := range carts {
		assert.True(t, p.Total(items).GreaterThanOrEqual(Subtotal(items)))
	}
}

func TestItemCount_DistinctLines(t *testing.T) {
	items := []model.CartItem{line("p1", "5", 2), line("p1", "5", 1), line("p2", "5", 0)}
	assert.Equal(t, 1, ItemCount(items))
	assert.Equal(t, 3, UnitCount(items))
}
