package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

func newStub(t *testing.T, status int, body string) (*Client, <-chan recordedRequest) {
	t.Helper()
	ch := make(chan recordedRequest, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		ch <- recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     string(raw),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient("test", srv.URL, &http.Client{Timeout: 5 * time.Second}, 0, zerolog.Nop()), ch
}

func sessionCtx() context.Context {
	ctx := session.WithSession(context.Background(), session.Session{Token: "tok", UserID: "u1", Role: model.RoleClient})
	return middleware.WithCorrelationID(ctx, "cid-1")
}

func TestDo_PropagatesSessionAndCorrelationHeaders(t *testing.T) {
	c, ch := newStub(t, http.StatusOK, `{"success":true,"data":{"id":"c1","items":[]}}`)

	_, err := NewCartClient(c).GetCart(sessionCtx())
	require.NoError(t, err)

	got := <-ch
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/cart", got.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "u1", got.Header.Get("X-USER-ID"))
	assert.Equal(t, "CLIENT", got.Header.Get("X-USER-ROLE"))
	assert.Equal(t, "cid-1", got.Header.Get(middleware.HeaderCorrelationID))
}

func TestCartClient_GetCart_NullDataIsEmptyCart(t *testing.T) {
	c, _ := newStub(t, http.StatusOK, `{"success":true,"data":null}`)

	cart, err := NewCartClient(c).GetCart(sessionCtx())
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Empty(t, cart.Items)
}

func TestCartClient_AddItem_SendsJSONBody(t *testing.T) {
	c, ch := newStub(t, http.StatusOK, `{"success":true,"data":{"items":[{"productId":"p1","price":10,"quantity":1}]}}`)

	cart, err := NewCartClient(c).AddItem(sessionCtx(), model.AddCartItemRequest{
		ProductID: "p1",
		Price:     model.NewMoney(10),
		Quantity:  1,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Price.Equal(model.NewMoney(10)))

	got := <-ch
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/cart/items", got.Path)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Contains(t, got.Body, `"productId":"p1"`)
	assert.Contains(t, got.Body, `"price":10`)
}

func TestCartClient_UpdateQuantityPath(t *testing.T) {
	c, ch := newStub(t, http.StatusOK, `{"success":true,"data":{"items":[]}}`)

	_, err := NewCartClient(c).UpdateQuantity(sessionCtx(), "p 1", 3)
	require.NoError(t, err)

	got := <-ch
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/cart/items/p 1/quantity/3", got.Path)
}

func TestEnvelope_SuccessFalseIsAPIError(t *testing.T) {
	c, _ := newStub(t, http.StatusOK, `{"success":false,"message":"out of stock"}`)

	_, err := NewCartClient(c).AddItem(sessionCtx(), model.AddCartItemRequest{ProductID: "p1", Quantity: 1})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "out of stock", apiErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(err))
}

func TestNon2xx_CarriesUpstreamMessage(t *testing.T) {
	c, _ := newStub(t, http.StatusNotFound, `{"message":"order not found"}`)

	_, err := NewOrderClient(c).GetOrder(sessionCtx(), "ORD-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.Contains(t, err.Error(), "order not found")
}

func TestOrderClient_Checkout(t *testing.T) {
	c, ch := newStub(t, http.StatusCreated, `{"orderNumber":"ORD-42","status":"PENDING","items":[]}`)

	o, err := NewOrderClient(c).Checkout(sessionCtx(), model.CreateOrderRequest{
		ShippingAddress: model.Address{FullName: "Ada", City: "Helsinki"},
		PaymentMethod:   model.PayOnDelivery,
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-42", o.OrderNumber)

	got := <-ch
	assert.Equal(t, "/api/orders/checkout", got.Path)
	assert.Contains(t, got.Body, `"shippingAddress":{"fullName":"Ada"`)
}

func TestOrderClient_CancelNoContent(t *testing.T) {
	c, ch := newStub(t, http.StatusNoContent, ``)

	require.NoError(t, NewOrderClient(c).Cancel(sessionCtx(), "ORD-1"))

	got := <-ch
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/orders/ORD-1/cancel", got.Path)
}

func TestOrderClient_UpdateStatusQuery(t *testing.T) {
	c, ch := newStub(t, http.StatusOK, `{"orderNumber":"ORD-1","status":"CONFIRMED"}`)

	o, err := NewOrderClient(c).UpdateStatus(sessionCtx(), "ORD-1", model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, o.Status)

	got := <-ch
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/orders/ORD-1/status", got.Path)
	assert.Equal(t, "status=CONFIRMED", got.RawQuery)
}

func TestOrderClient_ListSellerOrdersPage(t *testing.T) {
	c, ch := newStub(t, http.StatusOK, `{"content":[{"orderNumber":"A"}],"totalPages":2,"number":0,"size":1}`)

	p, err := NewOrderClient(c).ListSellerOrders(sessionCtx(), 0, 1)
	require.NoError(t, err)
	require.Len(t, p.Content, 1)
	assert.Equal(t, 2, p.TotalPages)

	got := <-ch
	assert.Equal(t, "page=0&size=1", got.RawQuery)
}

func TestProductClient_ListBySeller(t *testing.T) {
	c, ch := newStub(t, http.StatusOK, `{"success":true,"data":[{"id":"p1","name":"Mug","price":9.5,"quantity":3,"userId":"s1"}]}`)

	products, err := NewProductClient(c).ListProducts(sessionCtx(), "s1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].Quantity)

	got := <-ch
	assert.Equal(t, "/products", got.Path)
	assert.Equal(t, "sellerId=s1", got.RawQuery)
}

func TestMediaClient_UploadImageMultipart(t *testing.T) {
	c, ch := newStub(t, http.StatusOK, `{"success":true,"data":{"id":"m1","url":"/media/images/m1"}}`)

	m, err := NewMediaClient(c).UploadImage(sessionCtx(), "p1", OwnerProduct, "a.png", "image/png", []byte("\x89PNG"))
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)

	got := <-ch
	assert.True(t, strings.HasPrefix(got.Header.Get("Content-Type"), "multipart/form-data; boundary="))
	assert.Contains(t, got.Body, `name="file"; filename="a.png"`)
	assert.Contains(t, got.Body, `name="ownerType"`)
	assert.Contains(t, got.Body, "PRODUCT")
}

func TestAnalyticsClient_MapsSellerShape(t *testing.T) {
	c, ch := newStub(t, http.StatusOK, `{"success":true,"data":{
		"totalRevenue": 120.5,
		"bestSellingProducts":[{"productId":"p1","name":"Mug","unitsSold":4,"revenue":40,"category":"kitchen"}],
		"topCategories":[{"category":"kitchen","totalRevenue":40}]}}`)

	a, err := NewAnalyticsClient(c).SellerAnalytics(sessionCtx(), "s1")
	require.NoError(t, err)
	assert.True(t, a.TotalAmount.Equal(model.NewMoney(120.5)))
	require.Len(t, a.Items, 1)
	assert.Equal(t, 4, a.Items[0].Count)
	assert.Equal(t, []string{"kitchen"}, a.Items[0].Categories)
	assert.Equal(t, []string{"kitchen"}, a.Categories)

	got := <-ch
	assert.Equal(t, "/api/analytics/seller/s1", got.Path)
}

func TestReadsRetryButMutationsDoNot(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("flaky", srv.URL, &http.Client{Timeout: 5 * time.Second}, 2, zerolog.Nop())
	c.HTTP.RetryWaitMin = time.Millisecond
	c.HTTP.RetryWaitMax = time.Millisecond

	_, err := NewOrderClient(c).ListBuyerOrders(sessionCtx())
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	err = NewOrderClient(c).Cancel(sessionCtx(), "ORD-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestCheckHealth(t *testing.T) {
	c, ch := newStub(t, http.StatusOK, `{"status":"UP"}`)

	res := CheckHealth(context.Background(), HealthProbe{Name: "order", Client: c, Path: "/actuator/health"})
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/actuator/health", (<-ch).Path)
}
