package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

func (oc *OrderClient) Checkout(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	var o model.Order
	if err := oc.c.doJSON(ctx, http.MethodPost, "/api/orders/checkout", nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (oc *OrderClient) GetOrder(ctx context.Context, orderNumber string) (*model.Order, error) {
	var o model.Order
	if err := oc.c.doJSON(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderNumber), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (oc *OrderClient) ListBuyerOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := oc.c.doJSON(ctx, http.MethodGet, "/api/orders/buyer", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (oc *OrderClient) ListSellerOrders(ctx context.Context, page, size int) (model.Page[model.Order], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var p model.Page[model.Order]
	err := oc.c.doJSON(ctx, http.MethodGet, "/api/orders/seller", q, nil, &p)
	return p, err
}

func (oc *OrderClient) Cancel(ctx context.Context, orderNumber string) error {
	return oc.c.doJSON(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(orderNumber)+"/cancel", nil, nil, nil)
}

// Redo asks the backend to re-create a cancelled order as a new one.
func (oc *OrderClient) Redo(ctx context.Context, orderNumber string) (*model.Order, error) {
	var o model.Order
	if err := oc.c.doJSON(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(orderNumber)+"/redo", nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (oc *OrderClient) UpdateStatus(ctx context.Context, orderNumber string, status model.OrderStatus) (*model.Order, error) {
	q := url.Values{}
	q.Set("status", string(status))

	var o model.Order
	if err := oc.c.doJSON(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(orderNumber)+"/status", q, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
