package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// Client talks to one marketplace backend service. GET requests are retried on
// transport errors and 5xx responses; anything that mutates is sent once.
type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *retryablehttp.Client
}

func NewClient(name string, baseURL string, httpClient *http.Client, readRetryMax int, logger zerolog.Logger) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}

	rc := retryablehttp.NewClient()
	if httpClient != nil {
		rc.HTTPClient = httpClient
	}
	rc.RetryMax = readRetryMax
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = leveledLogger{logger: logger.With().Str("upstream", name).Logger()}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{Name: name, BaseURL: u, HTTP: rc}
}

func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body io.Reader, headers http.Header) (*http.Response, error) {
	// path arrives already escaped
	u, err := url.Parse(strings.TrimSuffix(c.BaseURL.String(), "/") + path)
	if err != nil {
		return nil, err
	}
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	session.FromContext(ctx).Apply(req.Header)

	// Ensure correlation id propagated upstream
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	if method != http.MethodGet {
		return c.HTTP.HTTPClient.Do(req)
	}
	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}
	return c.HTTP.Do(rreq)
}

// doJSON sends in (if non-nil) as JSON and decodes a 2xx body into out (if
// non-nil). Non-2xx responses become *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if in == nil {
		return c.send(ctx, method, path, query, nil, "", out)
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "%s: encode request", c.Name)
	}
	return c.send(ctx, method, path, query, bytes.NewReader(raw), "application/json", out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	var rawQuery string
	if query != nil {
		rawQuery = query.Encode()
	}

	resp, err := c.Do(ctx, method, path, rawQuery, body, headers)
	if err != nil {
		return errors.Wrapf(err, "%s %s %s", c.Name, method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(c.Name, method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "%s %s %s: decode response", c.Name, method, path)
	}
	return nil
}

type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.logger.Error().Fields(kv).Msg(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.logger.Warn().Fields(kv).Msg(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.logger.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.logger.Debug().Fields(kv).Msg(msg) }
