package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

// AuthClient talks to the user service's sign-in and sign-up endpoints.
type AuthClient struct{ c *Client }

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

func (ac *AuthClient) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := ac.c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (ac *AuthClient) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	var u model.User
	if err := ac.c.doJSON(ctx, http.MethodPost, "/auth/register", nil, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
