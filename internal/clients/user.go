package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type UserClient struct{ c *Client }

func NewUserClient(c *Client) *UserClient { return &UserClient{c: c} }

func (uc *UserClient) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := uc.c.doJSON(ctx, http.MethodGet, "/api/users/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (uc *UserClient) UpdateMe(ctx context.Context, req model.UserUpdateRequest) (*model.User, error) {
	var u model.User
	if err := uc.c.doJSON(ctx, http.MethodPut, "/api/users/me", nil, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (uc *UserClient) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := uc.c.doJSON(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (uc *UserClient) ListSellers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := uc.c.doJSON(ctx, http.MethodGet, "/api/users/sellers", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
