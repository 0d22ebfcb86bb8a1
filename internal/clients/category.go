package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type CategoryClient struct{ c *Client }

func NewCategoryClient(c *Client) *CategoryClient { return &CategoryClient{c: c} }

func (cc *CategoryClient) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := cc.c.doJSON(ctx, http.MethodGet, "/categories", nil, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (cc *CategoryClient) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var cat model.Category
	if err := cc.c.doJSON(ctx, http.MethodGet, "/categories/"+url.PathEscape(id), nil, nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
