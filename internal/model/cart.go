package model

// CartItem is one product line in the cart. Price is the unit price captured
// when the line was added.
type CartItem struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	Price        Money  `json:"price"`
	Quantity     int    `json:"quantity"`
	SellerID     string `json:"sellerId"`
	SellerName   string `json:"sellerName,omitempty"`
	CategoryID   string `json:"categoryId,omitempty"`
	CategorySlug string `json:"categorySlug,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// Cart mirrors the order-service cart document.
type Cart struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Items        []CartItem `json:"items"`
	Subtotal     Money      `json:"subtotal"`
	Tax          Money      `json:"tax"`
	ShippingCost Money      `json:"shippingCost"`
	Total        Money      `json:"total"`
}

type AddCartItemRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	SellerID    string `json:"sellerId"`
	SellerName  string `json:"sellerName,omitempty"`
	Price       Money  `json:"price"`
	Quantity    int    `json:"quantity"`
	CategoryID  string `json:"categoryId,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}
