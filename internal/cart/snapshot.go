package cart

import (
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

// Snapshot is one published cart state. It is never modified after
// publication; callers must not mutate Items.
type Snapshot struct {
	Items []model.CartItem `json:"items"`
	// LoadFailed is set when the remote cart could not be read and the
	// snapshot is an empty stand-in.
	LoadFailed bool            `json:"loadFailed,omitempty"`
	Summary    pricing.Summary `json:"summary"`
}

func newSnapshot(items []model.CartItem, policy pricing.Policy, loadFailed bool) Snapshot {
	kept := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.Quantity >= 1 {
			kept = append(kept, it)
		}
	}
	return Snapshot{Items: kept, LoadFailed: loadFailed, Summary: policy.Summarize(kept)}
}

func (s Snapshot) Subtotal() model.Money     { return s.Summary.Subtotal }
func (s Snapshot) NetSubtotal() model.Money  { return s.Summary.NetSubtotal }
func (s Snapshot) VATAmount() model.Money    { return s.Summary.VATAmount }
func (s Snapshot) ShippingCost() model.Money { return s.Summary.ShippingCost }
func (s Snapshot) Total() model.Money        { return s.Summary.Total }
func (s Snapshot) ItemCount() int            { return s.Summary.ItemCount }
func (s Snapshot) UnitCount() int            { return s.Summary.UnitCount }
func (s Snapshot) IsEmpty() bool             { return len(s.Items) == 0 }

func (s Snapshot) IsInCart(productID string) bool {
	return s.QuantityOf(productID) > 0
}

// QuantityOf sums the quantity of every line for productID.
func (s Snapshot) QuantityOf(productID string) int {
	n := 0
	for _, it := range s.Items {
		if it.ProductID == productID {
			n += it.Quantity
		}
	}
	return n
}
