// Package cart is the single source of truth for one user's shopping cart.
//
// Every mutation goes to the cart API first; the published state is then
// replaced wholesale with what the server returned. Snapshots are mirrored to
// local storage so a restart can show the last known cart before the first
// remote load completes.
package cart

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

// UnknownStock skips the local stock check in Add.
const UnknownStock = -1

var (
	ErrOutOfStock = errors.New("product is out of stock")
	ErrStockLimit = errors.New("requested quantity exceeds available stock")
)

type API interface {
	GetCart(ctx context.Context) (*model.Cart, error)
	AddItem(ctx context.Context, req model.AddCartItemRequest) (*model.Cart, error)
	UpdateQuantity(ctx context.Context, productID string, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
}

type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

type SellerNames interface {
	Resolve(ctx context.Context, ids []string) map[string]string
}

type CategorySlugs interface {
	Slug(id string) string
}

type EventSink interface {
	CartUpdated(ctx context.Context, ev events.CartUpdated)
}

type Deps struct {
	API        API
	Products   ProductLookup
	Sellers    SellerNames
	Categories CategorySlugs
	Storage    storage.Store
	Events     EventSink
	Policy     pricing.Policy
	Logger     zerolog.Logger
}

type Store struct {
	userID string
	d      Deps

	// op serialises mutations so responses are applied in call order
	op sync.Mutex

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]func(Snapshot)
	nextID int
}

func StorageKey(userID string) string { return "cart:" + userID }

// New creates the store for userID, seeded from the locally cached cart.
func New(ctx context.Context, userID string, d Deps) *Store {
	s := &Store{userID: userID, d: d, subs: make(map[int]func(Snapshot))}

	var cached []model.CartItem
	if d.Storage != nil {
		err := storage.GetJSON(ctx, d.Storage, StorageKey(userID), &cached)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			d.Logger.Warn().Err(err).Str("userId", userID).Msg("ignoring unreadable cached cart")
			cached = nil
		}
	}
	s.snap = newSnapshot(cached, d.Policy, false)
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe calls fn with the current snapshot and then on every publish.
// The returned func unsubscribes. fn must not call back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	// publish runs under op, so holding it keeps the first delivery ahead
	// of any newer snapshot
	s.op.Lock()
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.snap
	s.mu.Unlock()

	fn(current)
	s.op.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Load replaces the state with the remote cart. Failures publish an empty
// cart flagged LoadFailed; they are logged, not returned.
func (s *Store) Load(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()
	s.load(ctx)
}

func (s *Store) load(ctx context.Context) {
	if !session.FromContext(ctx).Authenticated() {
		s.publish(ctx, nil, false)
		return
	}
	c, err := s.d.API.GetCart(ctx)
	if err != nil {
		s.d.Logger.Warn().Err(err).Str("userId", s.userID).Msg("load cart failed, showing empty cart")
		s.publish(ctx, nil, true)
		return
	}
	s.publish(ctx, s.resolve(ctx, c.Items), false)
}

// Add puts item in the cart. availableStock of 0 is rejected locally;
// UnknownStock skips the check.
func (s *Store) Add(ctx context.Context, item model.CartItem, availableStock int) error {
	if availableStock == 0 {
		return ErrOutOfStock
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.op.Lock()
	defer s.op.Unlock()

	if availableStock > 0 && s.Snapshot().QuantityOf(item.ProductID)+item.Quantity > availableStock {
		return ErrStockLimit
	}

	c, err := s.d.API.AddItem(ctx, model.AddCartItemRequest{
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		SellerID:    item.SellerID,
		SellerName:  item.SellerName,
		Price:       item.Price,
		Quantity:    item.Quantity,
		CategoryID:  item.CategoryID,
		ImageURL:    item.ImageURL,
	})
	if err != nil {
		return errors.Wrap(err, "add to cart")
	}
	s.publish(ctx, s.resolve(ctx, c.Items), false)
	return nil
}

// UpdateQuantity sets the quantity of productID. Below 1 the line is removed.
// The product's stock is re-read first so the check uses fresh data.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, productID)
	}

	s.op.Lock()
	defer s.op.Unlock()

	p, err := s.d.Products.GetProduct(ctx, productID)
	if err != nil {
		return errors.Wrap(err, "check stock")
	}
	if quantity > p.Quantity {
		return ErrStockLimit
	}

	c, err := s.d.API.UpdateQuantity(ctx, productID, quantity)
	if err != nil {
		return errors.Wrap(err, "update quantity")
	}
	s.publish(ctx, s.resolve(ctx, c.Items), false)
	return nil
}

func (s *Store) Remove(ctx context.Context, productID string) error {
	s.op.Lock()
	defer s.op.Unlock()

	if err := s.d.API.RemoveItem(ctx, productID); err != nil {
		return errors.Wrap(err, "remove from cart")
	}
	s.load(ctx)
	return nil
}

// Clear empties the cart once c approves.
func (s *Store) Clear(ctx context.Context, c Confirmer) error {
	if err := RequireConfirmation(ctx, c, "Remove all items from your cart?"); err != nil {
		return err
	}

	s.op.Lock()
	defer s.op.Unlock()

	if err := s.d.API.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	s.load(ctx)
	return nil
}

// Reset publishes an empty cart without calling the API. Checkout uses it
// once the backend has turned the cart into an order.
func (s *Store) Reset(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()
	s.publish(ctx, nil, false)
}

// resolve fills in seller display names and category slugs.
func (s *Store) resolve(ctx context.Context, items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	copy(out, items)

	var names map[string]string
	if s.d.Sellers != nil {
		ids := make([]string, 0, len(out))
		for _, it := range out {
			ids = append(ids, it.SellerID)
		}
		names = s.d.Sellers.Resolve(ctx, ids)
	}
	for i := range out {
		if n, ok := names[out[i].SellerID]; ok && (out[i].SellerName == "" || out[i].SellerName == out[i].SellerID) {
			out[i].SellerName = n
		}
		if s.d.Categories != nil && out[i].CategoryID != "" {
			out[i].CategorySlug = s.d.Categories.Slug(out[i].CategoryID)
		}
	}
	return out
}

func (s *Store) publish(ctx context.Context, items []model.CartItem, loadFailed bool) {
	snap := newSnapshot(items, s.d.Policy, loadFailed)

	s.mu.Lock()
	s.snap = snap
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}

	if s.d.Storage != nil {
		if err := storage.SetJSON(ctx, s.d.Storage, StorageKey(s.userID), snap.Items); err != nil {
			s.d.Logger.Warn().Err(err).Str("userId", s.userID).Msg("mirror cart to storage failed")
		}
	}
	if s.d.Events != nil {
		s.d.Events.CartUpdated(ctx, events.CartUpdated{
			UserID:    s.userID,
			Items:     events.CartLines(snap.Items),
			ItemCount: snap.ItemCount(),
			Subtotal:  snap.Subtotal(),
			Total:     snap.Total(),
		})
	}
}
