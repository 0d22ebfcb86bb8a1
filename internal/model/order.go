package model

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []OrderStatus{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type PaymentMethod string

const PayOnDelivery PaymentMethod = "PAY_ON_DELIVERY"

type Address struct {
	FullName string `json:"fullName" validate:"notblank"`
	Street   string `json:"street" validate:"notblank"`
	City     string `json:"city" validate:"notblank"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zipCode" validate:"notblank,zip"`
	Country  string `json:"country" validate:"notblank"`
	Phone    string `json:"phone" validate:"notblank,phone"`
}

type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	SellerID    string `json:"sellerId"`
	SellerName  string `json:"sellerName,omitempty"`
	Price       Money  `json:"price"`
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"imageUrl,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
}

type Order struct {
	ID              string        `json:"id,omitempty"`
	OrderNumber     string        `json:"orderNumber"`
	UserID          string        `json:"userId,omitempty"`
	Status          OrderStatus   `json:"status"`
	PaymentMethod   PaymentMethod `json:"paymentMethod,omitempty"`
	Items           []OrderItem   `json:"items"`
	ShippingAddress *Address      `json:"shippingAddress,omitempty"`
	Subtotal        Money         `json:"subtotal"`
	Tax             Money         `json:"tax"`
	ShippingCost    Money         `json:"shippingCost"`
	Total           Money         `json:"total"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt,omitempty"`
}

// HasSeller reports whether any line of the order belongs to sellerID.
func (o Order) HasSeller(sellerID string) bool {
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			return true
		}
	}
	return false
}

type CreateOrderRequest struct {
	ShippingAddress Address       `json:"shippingAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod,omitempty"`
}
