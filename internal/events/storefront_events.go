package events

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"

const (
	CartUpdatedEvent = "storefront.CartUpdated"
	OrderPlacedEvent = "storefront.OrderPlaced"
	eventVersion     = 1
)

type CartLine struct {
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Price     model.Money `json:"price"`
}

// CartUpdated is emitted whenever the cart store publishes a new snapshot.
type CartUpdated struct {
	UserID    string      `json:"userId"`
	Items     []CartLine  `json:"items"`
	ItemCount int         `json:"itemCount"`
	Subtotal  model.Money `json:"subtotal"`
	Total     model.Money `json:"total"`
}

// OrderPlaced is emitted after checkout returns an order number.
type OrderPlaced struct {
	UserID      string      `json:"userId"`
	OrderNumber string      `json:"orderNumber"`
	ItemCount   int         `json:"itemCount"`
	Total       model.Money `json:"total"`
}

func CartLines(items []model.CartItem) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, CartLine{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	return lines
}
