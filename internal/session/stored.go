package session

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

type storedUser struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Load reads the session persisted under the "token" and "user" keys.
// Unparseable user data is removed from the store.
func Load(ctx context.Context, store storage.Store, logger zerolog.Logger) (Session, error) {
	var s Session

	token, err := store.Get(ctx, KeyToken)
	switch {
	case err == nil:
		s.Token = strings.TrimSpace(string(token))
	case !errors.Is(err, storage.ErrNotFound):
		return Session{}, errors.Wrap(err, "load token")
	}

	raw, err := store.Get(ctx, KeyUser)
	switch {
	case err == nil:
		var u storedUser
		if jerr := json.Unmarshal(raw, &u); jerr != nil {
			logger.Warn().Err(jerr).Msg("invalid user data in storage, removing")
			if derr := store.Delete(ctx, KeyUser); derr != nil {
				return Session{}, errors.Wrap(derr, "remove invalid user")
			}
		} else {
			s.UserID = u.ID
			s.Role = model.Role(strings.ToUpper(u.Role))
		}
	case !errors.Is(err, storage.ErrNotFound):
		return Session{}, errors.Wrap(err, "load user")
	}

	return s.withClaims(), nil
}

// Save persists the session so a later Load restores it.
func Save(ctx context.Context, store storage.Store, s Session) error {
	if err := store.Set(ctx, KeyToken, []byte(s.Token)); err != nil {
		return errors.Wrap(err, "save token")
	}
	return storage.SetJSON(ctx, store, KeyUser, storedUser{ID: s.UserID, Role: string(s.Role)})
}

// Clear removes the persisted session.
func Clear(ctx context.Context, store storage.Store) error {
	for _, k := range []string{KeyToken, KeyUser} {
		if err := store.Delete(ctx, k); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return errors.Wrapf(err, "clear %s", k)
		}
	}
	return nil
}
