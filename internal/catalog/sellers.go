package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type UserSource interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListSellers(ctx context.Context) ([]model.User, error)
}

// Sellers maps seller ids to display names.
type Sellers struct {
	src    UserSource
	logger zerolog.Logger

	mu    sync.RWMutex
	names map[string]string
}

func NewSellers(src UserSource, logger zerolog.Logger) *Sellers {
	return &Sellers{src: src, logger: logger, names: make(map[string]string)}
}

// Preload fills the cache from the seller directory. Failures are logged.
func (s *Sellers) Preload(ctx context.Context) {
	users, err := s.src.ListSellers(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("preload sellers failed")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		if u.Name != "" {
			s.names[u.ID] = u.Name
		}
	}
}

// Name returns the cached display name, or the id when unknown.
func (s *Sellers) Name(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.names[id]; ok {
		return n
	}
	return id
}

// Resolve fetches the names of ids not yet cached and returns a name for
// every id. A failed lookup degrades to the id and is retried next time.
func (s *Sellers) Resolve(ctx context.Context, ids []string) map[string]string {
	out := make(map[string]string, len(ids))
	var missing []string

	s.mu.RLock()
	for _, id := range ids {
		if id == "" {
			continue
		}
		if n, ok := s.names[id]; ok {
			out[id] = n
		} else if _, dup := out[id]; !dup {
			out[id] = id
			missing = append(missing, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range missing {
		u, err := s.src.GetUser(ctx, id)
		if err != nil || u == nil || u.Name == "" {
			s.logger.Warn().Err(err).Str("sellerId", id).Msg("resolve seller name failed")
			continue
		}
		out[id] = u.Name
		s.mu.Lock()
		s.names[id] = u.Name
		s.mu.Unlock()
	}
	return out
}
