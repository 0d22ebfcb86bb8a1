package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

// GetCart returns the caller's cart. A user without a cart gets an empty one.
func (cc *CartClient) GetCart(ctx context.Context) (*model.Cart, error) {
	cart, err := doEnvelope[*model.Cart](ctx, cc.c, http.MethodGet, "/api/cart", nil, nil)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &model.Cart{}
	}
	return cart, nil
}

func (cc *CartClient) AddItem(ctx context.Context, req model.AddCartItemRequest) (*model.Cart, error) {
	return cc.cartOrEmpty(doEnvelope[*model.Cart](ctx, cc.c, http.MethodPost, "/api/cart/items", nil, req))
}

func (cc *CartClient) UpdateQuantity(ctx context.Context, productID string, quantity int) (*model.Cart, error) {
	path := "/api/cart/items/" + url.PathEscape(productID) + "/quantity/" + strconv.Itoa(quantity)
	return cc.cartOrEmpty(doEnvelope[*model.Cart](ctx, cc.c, http.MethodPut, path, nil, nil))
}

func (cc *CartClient) RemoveItem(ctx context.Context, productID string) error {
	return cc.c.doJSON(ctx, http.MethodDelete, "/api/cart/items/"+url.PathEscape(productID), nil, nil, nil)
}

func (cc *CartClient) Clear(ctx context.Context) error {
	return cc.c.doJSON(ctx, http.MethodDelete, "/api/cart", nil, nil, nil)
}

func (cc *CartClient) cartOrEmpty(cart *model.Cart, err error) (*model.Cart, error) {
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &model.Cart{}
	}
	return cart, nil
}
