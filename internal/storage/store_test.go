package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "cart:u1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "cart:u1", []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, "cart:u2", []byte(`[2]`)))
	require.NoError(t, s.Set(ctx, "address:u1", []byte(`{}`)))

	got, err := s.Get(ctx, "cart:u1")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	keys, err := s.Keys(ctx, "cart:")
	require.NoError(t, err)
	assert.Equal(t, []string{"cart:u1", "cart:u2"}, keys)

	require.NoError(t, s.Set(ctx, "cart:u1", []byte(`[3]`)))
	got, err = s.Get(ctx, "cart:u1")
	require.NoError(t, err)
	assert.Equal(t, `[3]`, string(got))

	require.NoError(t, s.Delete(ctx, "cart:u1"))
	require.NoError(t, s.Delete(ctx, "missing"))
	_, err = s.Get(ctx, "cart:u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "storefront.json")
	f, err := NewFile(path)
	require.NoError(t, err)
	exerciseStore(t, f)

	// a second handle on the same path sees the persisted state
	reopened, err := NewFile(path)
	require.NoError(t, err)
	got, err := reopened.Get(context.Background(), "cart:u2")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(got))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	type addr struct {
		City string `json:"city"`
	}
	require.NoError(t, SetJSON(ctx, s, "address:u1", addr{City: "Helsinki"}))

	var out addr
	require.NoError(t, GetJSON(ctx, s, "address:u1", &out))
	assert.Equal(t, "Helsinki", out.City)

	require.NoError(t, s.Set(ctx, "broken", []byte("{")))
	assert.Error(t, GetJSON(ctx, s, "broken", &out))
	assert.ErrorIs(t, GetJSON(ctx, s, "nope", &out), ErrNotFound)
}
