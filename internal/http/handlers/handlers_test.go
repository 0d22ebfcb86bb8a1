package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/media"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/orders"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"out of stock", cart.ErrOutOfStock, http.StatusConflict},
		{"stock limit", errors.Wrap(cart.ErrStockLimit, "add"), http.StatusConflict},
		{"policy", orders.ErrTransitionNotAllowed, http.StatusConflict},
		{"not ready", checkout.ErrNotReady, http.StatusConflict},
		{"not confirmed", cart.ErrNotConfirmed, http.StatusPreconditionRequired},
		{"invalid product", catalog.ErrInvalidProduct, http.StatusUnprocessableEntity},
		{"too large", media.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{"bad type", media.ErrUnsupportedType, http.StatusUnsupportedMediaType},
		{"empty file", media.ErrEmpty, http.StatusBadRequest},
		{"upstream 404", errors.Wrap(&clients.APIError{Status: http.StatusNotFound}, "get"), http.StatusNotFound},
		{"upstream 500", &clients.APIError{Status: http.StatusInternalServerError}, http.StatusBadGateway},
		{"transport", errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestParseFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders?search=lamp&status=PENDING&from=2026-01-01&to=2026-01-31", nil)
	f, set, err := parseFilter(r)
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, "lamp", f.Search)
	assert.Equal(t, "PENDING", f.Status)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), f.From)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), f.To)

	_, set, err = parseFilter(httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.NoError(t, err)
	assert.False(t, set)

	_, _, err = parseFilter(httptest.NewRequest(http.MethodGet, "/orders?status=LOST", nil))
	assert.Error(t, err)

	_, _, err = parseFilter(httptest.NewRequest(http.MethodGet, "/orders?from=01/02/2026", nil))
	assert.Error(t, err)
}

type fakeProfile struct {
	updates []model.UserUpdateRequest
}

func (f *fakeProfile) Me(context.Context) (*model.User, error) {
	return &model.User{ID: "u1", Name: "Ada", Role: model.RoleClient}, nil
}

func (f *fakeProfile) UpdateMe(_ context.Context, req model.UserUpdateRequest) (*model.User, error) {
	f.updates = append(f.updates, req)
	return &model.User{ID: "u1", Name: "Ada", AvatarURL: req.AvatarURL}, nil
}

type fakeMedia struct {
	uploads int
	owner   string
}

func (f *fakeMedia) UploadImage(_ context.Context, ownerID, ownerType, filename, contentType string, data []byte) (*model.Media, error) {
	f.uploads++
	f.owner = ownerType + ":" + ownerID
	return &model.Media{ID: "m1", URL: "https://cdn.example/m1.png"}, nil
}

func (f *fakeMedia) DeleteImage(context.Context, string) error { return nil }

func multipartFile(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func withClient(r *http.Request) *http.Request {
	s := session.Session{Token: "t", UserID: "u1", Role: model.RoleClient}
	return r.WithContext(session.WithSession(r.Context(), s))
}

func TestUploadAvatar(t *testing.T) {
	users := &fakeProfile{}
	store := &fakeMedia{}
	h := NewProfileHandler(users, nil, media.NewUploader(store), zerolog.Nop())

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	body, ct := multipartFile(t, png)
	req := withClient(httptest.NewRequest(http.MethodPost, "/profile/avatar", body))
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.UploadAvatar(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 1, store.uploads)
	assert.Equal(t, clients.OwnerUser+":u1", store.owner)
	require.Len(t, users.updates, 1)
	assert.Equal(t, "https://cdn.example/m1.png", users.updates[0].AvatarURL)
}

func TestProfileUpdate_ChecksPasswordBeforeSending(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"weak", `{"password":"a","confirmPassword":"a"}`, "password"},
		{"mismatch", `{"password":"abcdefg1","confirmPassword":"abcdefg2"}`, "confirmPassword"},
		{"unconfirmed", `{"password":"abcdefg1"}`, "confirmPassword"},
		{"blank name", `{"name":"   "}`, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeProfile{}
			h := NewProfileHandler(users, nil, nil, zerolog.Nop())

			req := withClient(httptest.NewRequest(http.MethodPut, "/profile", bytes.NewBufferString(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			h.Update(rr, req)

			require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Body.String(), `"`+tt.field+`"`)
			assert.Empty(t, users.updates, "nothing reaches the backend")
		})
	}
}

func TestProfileUpdate_ForwardsValidForm(t *testing.T) {
	users := &fakeProfile{}
	h := NewProfileHandler(users, nil, nil, zerolog.Nop())

	body := `{"name":"Ada","password":"abcdefg1","confirmPassword":"abcdefg1"}`
	req := withClient(httptest.NewRequest(http.MethodPut, "/profile", bytes.NewBufferString(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Update(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, users.updates, 1)
	assert.Equal(t, model.UserUpdateRequest{Name: "Ada", Password: "abcdefg1"}, users.updates[0])
}

func TestUploadAvatar_RejectsTextLocally(t *testing.T) {
	store := &fakeMedia{}
	h := NewProfileHandler(&fakeProfile{}, nil, media.NewUploader(store), zerolog.Nop())

	body, ct := multipartFile(t, []byte("just some text, not an image"))
	req := withClient(httptest.NewRequest(http.MethodPost, "/profile/avatar", body))
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.UploadAvatar(rr, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	assert.Zero(t, store.uploads)
}

func TestUploadAvatar_MissingFile(t *testing.T) {
	h := NewProfileHandler(&fakeProfile{}, nil, media.NewUploader(&fakeMedia{}), zerolog.Nop())
	rr := httptest.NewRecorder()
	h.UploadAvatar(rr, withClient(httptest.NewRequest(http.MethodPost, "/profile/avatar", nil)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
