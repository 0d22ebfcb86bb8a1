// Package orders lists a user's orders, filters them and applies the status
// transitions a buyer or seller may make.
package orders

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/debounce"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

// sellerPageSize is the page size used to walk the seller listing.
const sellerPageSize = 50

// maxSellerPages bounds the walk if the backend never reports a last page.
const maxSellerPages = 200

type API interface {
	ListBuyerOrders(ctx context.Context) ([]model.Order, error)
	ListSellerOrders(ctx context.Context, page, size int) (model.Page[model.Order], error)
	GetOrder(ctx context.Context, orderNumber string) (*model.Order, error)
	Cancel(ctx context.Context, orderNumber string) error
	UpdateStatus(ctx context.Context, orderNumber string, status model.OrderStatus) (*model.Order, error)
}

// ListedOrder is an order with the actions the viewer may take on it.
type ListedOrder struct {
	model.Order
	Actions []Action `json:"actions"`
}

type State struct {
	Orders     []ListedOrder `json:"orders"`
	Filter     Filter        `json:"filter"`
	Total      int           `json:"total"`
	LoadFailed bool          `json:"loadFailed,omitempty"`
}

type View struct {
	userID string
	api    API
	store  storage.Store
	search *debounce.Debouncer
	logger zerolog.Logger

	mu         sync.RWMutex
	all        []model.Order
	filter     Filter
	hidden     map[string]struct{}
	loadFailed bool
	viewer     session.Session
}

func HiddenKey(userID string) string { return "hidden-orders:" + userID }

func NewView(ctx context.Context, userID string, api API, store storage.Store, search *debounce.Debouncer, logger zerolog.Logger) *View {
	v := &View{
		userID: userID,
		api:    api,
		store:  store,
		search: search,
		logger: logger,
		filter: Filter{Status: StatusAll},
		hidden: make(map[string]struct{}),
	}
	if store != nil {
		var ids []string
		err := storage.GetJSON(ctx, store, HiddenKey(userID), &ids)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warn().Err(err).Str("userId", userID).Msg("ignoring unreadable hidden orders")
		}
		for _, id := range ids {
			v.hidden[id] = struct{}{}
		}
	}
	return v
}

// Refresh reloads the list from the endpoint matching the viewer's role.
// A failed read empties the list and sets LoadFailed.
func (v *View) Refresh(ctx context.Context) {
	s := session.FromContext(ctx)

	var (
		list []model.Order
		err  error
	)
	switch {
	case s.IsSeller():
		list, err = v.sellerOrders(ctx)
	case s.Authenticated():
		list, err = v.api.ListBuyerOrders(ctx)
	}
	if err != nil {
		v.logger.Warn().Err(err).Str("userId", v.userID).Msg("load orders failed, showing empty list")
		list = nil
	}

	sorted := append([]model.Order(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	v.mu.Lock()
	v.all = sorted
	v.loadFailed = err != nil
	v.viewer = s
	v.mu.Unlock()
}

func (v *View) sellerOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	for page := 0; page < maxSellerPages; page++ {
		p, err := v.api.ListSellerOrders(ctx, page, sellerPageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Content...)
		if p.Last || len(p.Content) == 0 || page+1 >= p.TotalPages {
			break
		}
	}
	return out, nil
}

func (v *View) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()

	visible := make([]model.Order, 0, len(v.all))
	for _, o := range v.all {
		if _, gone := v.hidden[o.OrderNumber]; !gone {
			visible = append(visible, o)
		}
	}
	filtered := v.filter.Apply(visible)

	listed := make([]ListedOrder, 0, len(filtered))
	for _, o := range filtered {
		listed = append(listed, ListedOrder{Order: o, Actions: Permitted(o, v.viewer)})
	}
	return State{Orders: listed, Filter: v.filter, Total: len(visible), LoadFailed: v.loadFailed}
}

// SetFilter replaces the filter and takes effect immediately.
func (v *View) SetFilter(f Filter) State {
	if f.Status == "" {
		f.Status = StatusAll
	}
	v.mu.Lock()
	v.filter = f
	v.mu.Unlock()
	return v.State()
}

// SetSearch updates only the search text once typing pauses.
func (v *View) SetSearch(q string) {
	apply := func() {
		v.mu.Lock()
		v.filter.Search = q
		v.mu.Unlock()
	}
	if v.search == nil {
		apply()
		return
	}
	v.search.Trigger(apply)
}

// FlushSearch applies a pending search right away.
func (v *View) FlushSearch() {
	if v.search != nil {
		v.search.Flush()
	}
}

// Find returns a listed order by number.
func (v *View) Find(orderNumber string) (model.Order, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, o := range v.all {
		if o.OrderNumber == orderNumber {
			return o, true
		}
	}
	return model.Order{}, false
}

// GetOrder loads one order for the detail page.
func (v *View) GetOrder(ctx context.Context, orderNumber string) (*model.Order, error) {
	o, err := v.api.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %s", orderNumber)
	}
	return o, nil
}

// hide removes orderNumber from the list for good.
func (v *View) hide(ctx context.Context, orderNumber string) error {
	v.mu.Lock()
	v.hidden[orderNumber] = struct{}{}
	ids := make([]string, 0, len(v.hidden))
	for id := range v.hidden {
		ids = append(ids, id)
	}
	v.mu.Unlock()

	sort.Strings(ids)
	if v.store == nil {
		return nil
	}
	return storage.SetJSON(ctx, v.store, HiddenKey(v.userID), ids)
}
