package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type ProductClient struct{ c *Client }

func NewProductClient(c *Client) *ProductClient { return &ProductClient{c: c} }

// ListProducts lists every product, or one seller's when sellerID is set.
func (pc *ProductClient) ListProducts(ctx context.Context, sellerID string) ([]model.Product, error) {
	var q url.Values
	if sellerID != "" {
		q = url.Values{"sellerId": {sellerID}}
	}
	return doEnvelope[[]model.Product](ctx, pc.c, http.MethodGet, "/products", q, nil)
}

func (pc *ProductClient) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return doEnvelope[*model.Product](ctx, pc.c, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil)
}

func (pc *ProductClient) CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	return doEnvelope[*model.Product](ctx, pc.c, http.MethodPost, "/products", nil, req)
}

func (pc *ProductClient) UpdateProduct(ctx context.Context, id string, req model.ProductRequest) (*model.Product, error) {
	return doEnvelope[*model.Product](ctx, pc.c, http.MethodPut, "/products/"+url.PathEscape(id), nil, req)
}

func (pc *ProductClient) DeleteProduct(ctx context.Context, id string) error {
	return pc.c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil)
}
