package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestFromHeaders(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderAuthorization, "Bearer opaque")
	h.Set(HeaderUserID, " u1 ")
	h.Set(HeaderUserRole, "client")

	s := FromHeaders(h)
	assert.Equal(t, "opaque", s.Token)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, model.RoleClient, s.Role)
	assert.True(t, s.IsClient())
	assert.False(t, s.IsSeller())
}

func TestFromHeaders_ClaimsFillMissingIdentity(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"id": "s1", "role": "seller", "exp": time.Now().Add(time.Hour).Unix()})
	h := http.Header{}
	h.Set(HeaderAuthorization, "bearer "+tok)

	s := FromHeaders(h)
	assert.Equal(t, "s1", s.UserID)
	assert.Equal(t, model.RoleSeller, s.Role)
	assert.True(t, s.IsSeller())
}

func TestFromHeaders_HeadersMustMatchClaims(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"id": "alice", "role": "client", "exp": time.Now().Add(time.Hour).Unix()})
	tests := []struct {
		name     string
		id, role string
		wantID   string
	}{
		{"same identity", "alice", "CLIENT", "alice"},
		{"role case differs", "alice", "client", "alice"},
		{"other user", "bob", "", ""},
		{"other user same role", "bob", "CLIENT", ""},
		{"escalated role", "alice", "SELLER", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			h.Set(HeaderAuthorization, "Bearer "+tok)
			h.Set(HeaderUserID, tt.id)
			h.Set(HeaderUserRole, tt.role)

			s := FromHeaders(h)
			assert.Equal(t, tt.wantID, s.UserID)
			assert.Equal(t, tt.wantID != "", s.Authenticated())
			if tt.wantID == "" {
				assert.False(t, s.IsSeller())
				assert.Empty(t, s.Token)
			}
		})
	}
}

func TestAuthenticated(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{"anonymous", Session{}, false},
		{"token only", Session{Token: "t"}, false},
		{"id only", Session{UserID: "u1"}, false},
		{"no expiry", Session{Token: "t", UserID: "u1"}, true},
		{"not expired", Session{Token: "t", UserID: "u1", ExpiresAt: now.Add(time.Minute)}, true},
		{"expired", Session{Token: "t", UserID: "u1", ExpiresAt: now.Add(-time.Minute)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.AuthenticatedAt(now))
		})
	}
}

func TestApply_SkipsEmpty(t *testing.T) {
	h := http.Header{}
	Session{UserID: "u1"}.Apply(h)
	assert.Empty(t, h.Get(HeaderAuthorization))
	assert.Equal(t, "u1", h.Get(HeaderUserID))
	assert.Empty(t, h.Get(HeaderUserRole))
}

func TestFromContext_DefaultsToAnonymous(t *testing.T) {
	assert.False(t, FromContext(context.Background()).Authenticated())

	ctx := WithSession(context.Background(), Session{Token: "t", UserID: "u1"})
	assert.Equal(t, "u1", FromContext(ctx).UserID)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	require.NoError(t, Save(ctx, store, Session{Token: "t", UserID: "u1", Role: model.RoleClient}))

	s, err := Load(ctx, store, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "t", s.Token)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, model.RoleClient, s.Role)

	require.NoError(t, Clear(ctx, store))
	require.NoError(t, Clear(ctx, store), "clearing twice is fine")
	s, err = Load(ctx, store, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestLoad_RemovesInvalidUser(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, KeyToken, []byte("t")))
	require.NoError(t, store.Set(ctx, KeyUser, []byte("{not json")))

	s, err := Load(ctx, store, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "t", s.Token)
	assert.Empty(t, s.UserID)

	_, err = store.Get(ctx, KeyUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
