// Package session carries the caller identity that the marketplace backend
// expects on every request: a bearer token plus the X-USER-ID and X-USER-ROLE
// headers.
package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderUserID        = "X-USER-ID"
	HeaderUserRole      = "X-USER-ROLE"
)

type Session struct {
	Token     string
	UserID    string
	Role      model.Role
	ExpiresAt time.Time
}

// Authenticated reports whether the session has a token and user id and the
// token has not expired.
func (s Session) Authenticated() bool {
	return s.AuthenticatedAt(time.Now())
}

func (s Session) AuthenticatedAt(now time.Time) bool {
	if s.Token == "" || s.UserID == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

func (s Session) IsClient() bool { return s.Authenticated() && s.Role == model.RoleClient }
func (s Session) IsSeller() bool { return s.Authenticated() && s.Role == model.RoleSeller }

// Apply sets the backend auth headers on h. Empty values are skipped.
func (s Session) Apply(h http.Header) {
	if s.Token != "" {
		h.Set(HeaderAuthorization, "Bearer "+s.Token)
	}
	if s.UserID != "" {
		h.Set(HeaderUserID, s.UserID)
	}
	if s.Role != "" {
		h.Set(HeaderUserRole, string(s.Role))
	}
}

// FromHeaders reads a session from inbound request headers. Missing id or
// role fall back to the token's claims, and must agree with them when both
// are present.
func FromHeaders(h http.Header) Session {
	s := Session{
		Token:  bearerToken(h.Get(HeaderAuthorization)),
		UserID: strings.TrimSpace(h.Get(HeaderUserID)),
		Role:   model.Role(strings.ToUpper(strings.TrimSpace(h.Get(HeaderUserRole)))),
	}
	return s.withClaims()
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return ""
}

// withClaims fills id, role and expiry from the JWT payload. The signature is
// not checked here; the backend verifies every request. Headers that name a
// different user or role than the token's claims give an anonymous session.
func (s Session) withClaims() Session {
	if s.Token == "" {
		return s
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return s
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		if s.UserID != "" && s.UserID != id {
			return Session{}
		}
		s.UserID = id
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		role = strings.ToUpper(role)
		if s.Role != "" && string(s.Role) != role {
			return Session{}
		}
		s.Role = model.Role(role)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, or the zero (anonymous)
// session.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Session{}
}
