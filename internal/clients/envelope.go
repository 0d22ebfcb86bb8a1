package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

// doEnvelope is doJSON for endpoints that wrap their payload in
// model.APIResponse. success=false is reported as an *APIError.
func doEnvelope[T any](ctx context.Context, c *Client, method, path string, query url.Values, in any) (T, error) {
	var env model.APIResponse[T]
	if err := c.doJSON(ctx, method, path, query, in, &env); err != nil {
		var zero T
		return zero, err
	}
	return unwrap(c, method, path, env)
}

func unwrap[T any](c *Client, method, path string, env model.APIResponse[T]) (T, error) {
	if !env.Success {
		var zero T
		return zero, &APIError{
			Service: c.Name,
			Method:  method,
			Path:    path,
			Status:  http.StatusUnprocessableEntity,
			Message: env.Message,
		}
	}
	return env.Data, nil
}
