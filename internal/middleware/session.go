package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

// Session extracts the caller's session (bearer token, X-USER-ID, X-USER-ROLE)
// and stores it in the request context. Guards decide what to do with it.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromHeaders(r.Header)
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
	})
}

// StoredSession is Session for single-user installs: requests without
// credentials fall back to the session persisted in store.
func StoredSession(store storage.Store, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromHeaders(r.Header)
			if r.Header.Get(session.HeaderAuthorization) == "" && r.Header.Get(session.HeaderUserID) == "" {
				stored, err := session.Load(r.Context(), store, logger)
				if err != nil {
					logger.Warn().Err(err).Msg("load stored session failed")
				} else {
					s = stored
				}
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}
