// Package guard decides who may open which storefront route. Predicates are
// side-effect free; the middleware turns a refusal into a redirect.
package guard

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const (
	SignInPath      = "/signin"
	HomePath        = "/"
	ProductListPath = "/product-listing"
)

// CartCounter reports how many lines the caller's cart holds.
type CartCounter func(ctx context.Context) int

func CanAuthenticated(s session.Session) bool { return s.Authenticated() }
func CanClient(s session.Session) bool        { return s.IsClient() }
func CanSeller(s session.Session) bool        { return s.IsSeller() }
func CanCart(itemCount int) bool              { return itemCount > 0 }

// SignInURL is the sign-in page with a return address back to r.
func SignInURL(r *http.Request) string {
	return SignInPath + "?returnUrl=" + url.QueryEscape(r.URL.RequestURI())
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CanAuthenticated(session.FromContext(r.Context())) {
			redirect(w, r, SignInURL(r))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ClientOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CanClient(session.FromContext(r.Context())) {
			redirect(w, r, HomePath)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SellerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CanSeller(session.FromContext(r.Context())) {
			redirect(w, r, HomePath)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NonEmptyCart sends callers with an empty cart to the product listing.
func NonEmptyCart(count CartCounter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !CanCart(count(r.Context())) {
				redirect(w, r, ProductListPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
