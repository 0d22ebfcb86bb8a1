// Package storefront wires the per-user state: each signed-in user gets a cart
// store, a checkout wizard and an order listing that share one set of
// backend clients.
package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/debounce"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/orders"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

// OrderAPI is what both the checkout wizard and the order listing call.
type OrderAPI interface {
	checkout.OrderAPI
	orders.API
}

type Deps struct {
	Cart       cart.API
	Orders     OrderAPI
	Products   cart.ProductLookup
	Sellers    cart.SellerNames
	Categories cart.CategorySlugs
	Storage    storage.Store
	Events     *events.Emitter
	Policy     pricing.Policy

	SearchDebounce   time.Duration
	AutosaveDebounce time.Duration

	Logger zerolog.Logger
}

type Workspace struct {
	UserID   string
	Cart     *cart.Store
	Checkout *checkout.Wizard
	Orders   *orders.View
	Actions  *orders.Actions

	search   *debounce.Debouncer
	autosave *debounce.Debouncer
	lastUsed time.Time // guarded by Registry.mu
}

func (w *Workspace) close() {
	w.search.Stop()
	w.autosave.Stop()
}

// Registry hands out one workspace per user id. Workspaces leave on sign-out
// or once Sweep finds them idle.
type Registry struct {
	d   Deps
	now func() time.Time

	mu     sync.Mutex
	spaces map[string]*Workspace
}

func NewRegistry(d Deps) *Registry {
	return &Registry{d: d, now: time.Now, spaces: make(map[string]*Workspace)}
}

// For returns the user's workspace, creating it on first use.
func (r *Registry) For(ctx context.Context, userID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.spaces[userID]
	if !ok {
		ws = r.build(ctx, userID)
		r.spaces[userID] = ws
	}
	ws.lastUsed = r.now()
	return ws
}

func (r *Registry) build(ctx context.Context, userID string) *Workspace {
	logger := r.d.Logger.With().Str("userId", userID).Logger()
	ws := &Workspace{
		UserID:   userID,
		search:   debounce.New(r.d.SearchDebounce),
		autosave: debounce.New(r.d.AutosaveDebounce),
	}
	cartDeps := cart.Deps{
		API:        r.d.Cart,
		Products:   r.d.Products,
		Sellers:    r.d.Sellers,
		Categories: r.d.Categories,
		Storage:    r.d.Storage,
		Policy:     r.d.Policy,
		Logger:     logger.With().Str("component", "cart").Logger(),
	}
	checkoutDeps := checkout.Deps{
		Orders:   r.d.Orders,
		Storage:  r.d.Storage,
		Autosave: ws.autosave,
		Logger:   logger.With().Str("component", "checkout").Logger(),
	}
	if r.d.Events != nil {
		cartDeps.Events = r.d.Events
		checkoutDeps.Events = r.d.Events
	}

	ws.Cart = cart.New(ctx, userID, cartDeps)
	checkoutDeps.Cart = ws.Cart
	ws.Checkout = checkout.NewWizard(ctx, userID, checkoutDeps)
	ws.Orders = orders.NewView(ctx, userID, r.d.Orders, r.d.Storage, ws.search, logger.With().Str("component", "orders").Logger())
	ws.Actions = orders.NewActions(r.d.Orders, ws.Orders, ws.Cart)
	return ws
}

// Evict drops a user's workspace, e.g. on sign-out.
func (r *Registry) Evict(userID string) {
	r.mu.Lock()
	ws, ok := r.spaces[userID]
	delete(r.spaces, userID)
	r.mu.Unlock()
	if ok {
		ws.close()
	}
}

// Sweep evicts workspaces unused for longer than idle and reports how many
// went. Their persisted cart, draft and hidden orders stay in storage.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Workspace
	for id, ws := range r.spaces {
		if ws.lastUsed.Before(cutoff) {
			stale = append(stale, ws)
			delete(r.spaces, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range stale {
		ws.close()
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(idle); n > 0 {
				r.d.Logger.Debug().Int("evicted", n).Int("remaining", r.Len()).Msg("idle workspaces swept")
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

// Close stops every workspace's pending debounced work.
func (r *Registry) Close() {
	r.mu.Lock()
	spaces := r.spaces
	r.spaces = make(map[string]*Workspace)
	r.mu.Unlock()
	for _, ws := range spaces {
		ws.close()
	}
}
