package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

func serve(h http.Handler, target string, s session.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(session.WithSession(req.Context(), s))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

var (
	anonymous = session.Session{}
	client    = session.Session{Token: "t", UserID: "u1", Role: model.RoleClient}
	seller    = session.Session{Token: "t", UserID: "s1", Role: model.RoleSeller}
)

func TestAuthenticated_RedirectsWithReturnURL(t *testing.T) {
	rr := serve(Authenticated(ok), "/profile?tab=orders", anonymous)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/signin?returnUrl=%2Fprofile%3Ftab%3Dorders", rr.Header().Get("Location"))

	assert.Equal(t, http.StatusOK, serve(Authenticated(ok), "/profile", client).Code)
}

func TestRoleGuards(t *testing.T) {
	cases := []struct {
		name  string
		h     http.Handler
		s     session.Session
		allow bool
	}{
		{"client on client route", ClientOnly(ok), client, true},
		{"seller on client route", ClientOnly(ok), seller, false},
		{"anonymous on client route", ClientOnly(ok), anonymous, false},
		{"seller on seller route", SellerOnly(ok), seller, true},
		{"client on seller route", SellerOnly(ok), client, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(tc.h, "/x", tc.s)
			if tc.allow {
				assert.Equal(t, http.StatusOK, rr.Code)
				return
			}
			assert.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, "/", rr.Header().Get("Location"))
		})
	}
}

func TestNonEmptyCart(t *testing.T) {
	count := 0
	h := NonEmptyCart(func(context.Context) int { return count })(ok)

	rr := serve(h, "/cart", client)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/product-listing", rr.Header().Get("Location"))

	count = 2
	assert.Equal(t, http.StatusOK, serve(h, "/cart", client).Code)
}

func TestExpiredTokenIsNotAuthenticated(t *testing.T) {
	expired := client
	expired.ExpiresAt = expired.ExpiresAt.AddDate(2000, 0, 0)
	assert.False(t, CanAuthenticated(expired))
	assert.False(t, CanClient(expired))
}
