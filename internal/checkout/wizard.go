// Package checkout runs the order submission wizard: shipping address, review,
// then a single place-order call.
package checkout

import (
	"context"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/debounce"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

type Step string

const (
	StepAddress   Step = "ADDRESS"
	StepReview    Step = "REVIEW"
	StepSubmitted Step = "SUBMITTED"
)

// ErrNotReady is returned when PlaceOrder is called outside a confirmed review.
var ErrNotReady = errors.New("order is not ready to be placed")

type OrderAPI interface {
	Checkout(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
}

// Cart is the part of the cart store the wizard needs.
type Cart interface {
	Reset(ctx context.Context)
}

type EventSink interface {
	OrderPlaced(ctx context.Context, ev events.OrderPlaced)
}

type Deps struct {
	Orders   OrderAPI
	Cart     Cart
	Storage  storage.Store
	Events   EventSink
	Autosave *debounce.Debouncer
	Logger   zerolog.Logger
}

// State is what the checkout page renders.
type State struct {
	Step      Step          `json:"step"`
	Address   model.Address `json:"address"`
	Confirmed bool          `json:"confirmed"`
	// CanPlaceOrder is true in a confirmed review.
	CanPlaceOrder bool   `json:"canPlaceOrder"`
	OrderNumber   string `json:"orderNumber,omitempty"`
}

type Wizard struct {
	userID string
	d      Deps

	mu        sync.Mutex
	step      Step
	address   model.Address
	confirmed bool
	order     string
	placing   bool
}

func AddressKey(userID string) string { return "address:" + userID }

// NewWizard starts at address entry, prefilled with the saved draft.
func NewWizard(ctx context.Context, userID string, d Deps) *Wizard {
	w := &Wizard{userID: userID, d: d, step: StepAddress}
	if d.Storage != nil {
		var saved model.Address
		err := storage.GetJSON(ctx, d.Storage, AddressKey(userID), &saved)
		switch {
		case err == nil:
			w.address = saved
		case !errors.Is(err, storage.ErrNotFound):
			d.Logger.Warn().Err(err).Str("userId", userID).Msg("ignoring unreadable saved address")
		}
	}
	return w
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Wizard) stateLocked() State {
	return State{
		Step:          w.step,
		Address:       w.address,
		Confirmed:     w.confirmed,
		CanPlaceOrder: w.step == StepReview && w.confirmed && !w.placing,
		OrderNumber:   w.order,
	}
}

// UpdateDraft records a partially typed address and saves it after the
// autosave window.
func (w *Wizard) UpdateDraft(ctx context.Context, a model.Address) {
	w.mu.Lock()
	if w.step != StepAddress {
		w.mu.Unlock()
		return
	}
	w.address = a
	w.mu.Unlock()

	save := func() { w.saveAddress(context.WithoutCancel(ctx), a) }
	if w.d.Autosave == nil {
		save()
		return
	}
	w.d.Autosave.Trigger(save)
}

// SubmitAddress validates a and moves to review. An invalid address keeps the
// wizard where it is.
func (w *Wizard) SubmitAddress(ctx context.Context, a model.Address) (State, error) {
	if err := ValidateAddress(a); err != nil {
		return w.State(), err
	}

	w.mu.Lock()
	if w.step != StepAddress && w.step != StepReview {
		st := w.stateLocked()
		w.mu.Unlock()
		return st, ErrNotReady
	}
	w.address = a
	w.step = StepReview
	w.confirmed = false
	st := w.stateLocked()
	w.mu.Unlock()

	// a pending draft save must not overwrite the submitted address
	if w.d.Autosave != nil {
		w.d.Autosave.Flush()
	}
	w.saveAddress(ctx, a)
	return st, nil
}

func (w *Wizard) Back() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepReview && !w.placing {
		w.step = StepAddress
		w.confirmed = false
	}
	return w.stateLocked()
}

// ConfirmReview sets the review checkbox.
func (w *Wizard) ConfirmReview(confirmed bool) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepReview {
		w.confirmed = confirmed
	}
	return w.stateLocked()
}

// PlaceOrder submits the order and returns the order-detail redirect. On
// failure the wizard stays in review and the cart is untouched.
func (w *Wizard) PlaceOrder(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.step != StepReview || !w.confirmed || w.placing {
		w.mu.Unlock()
		return "", ErrNotReady
	}
	w.placing = true
	addr := w.address
	w.mu.Unlock()

	o, err := w.d.Orders.Checkout(ctx, model.CreateOrderRequest{
		ShippingAddress: addr,
		PaymentMethod:   model.PayOnDelivery,
	})

	w.mu.Lock()
	w.placing = false
	if err == nil && (o == nil || o.OrderNumber == "") {
		err = errors.New("checkout returned no order number")
	}
	if err != nil {
		w.mu.Unlock()
		return "", errors.Wrap(err, "place order")
	}
	w.step = StepSubmitted
	w.order = o.OrderNumber
	w.mu.Unlock()

	if w.d.Cart != nil {
		w.d.Cart.Reset(ctx)
	}
	if w.d.Events != nil {
		units := 0
		for _, it := range o.Items {
			units += it.Quantity
		}
		w.d.Events.OrderPlaced(ctx, events.OrderPlaced{
			UserID:      w.userID,
			OrderNumber: o.OrderNumber,
			ItemCount:   units,
			Total:       o.Total,
		})
	}
	w.d.Logger.Info().Str("userId", w.userID).Str("orderNumber", o.OrderNumber).Msg("order placed")
	return OrderDetailPath(o.OrderNumber), nil
}

// Restart returns a submitted wizard to address entry for the next order.
func (w *Wizard) Restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepSubmitted {
		w.step = StepAddress
		w.confirmed = false
		w.order = ""
	}
}

func OrderDetailPath(orderNumber string) string {
	return "/order-detail/" + url.PathEscape(orderNumber)
}

func (w *Wizard) saveAddress(ctx context.Context, a model.Address) {
	if w.d.Storage == nil {
		return
	}
	if err := storage.SetJSON(ctx, w.d.Storage, AddressKey(w.userID), a); err != nil {
		w.d.Logger.Warn().Err(err).Str("userId", w.userID).Msg("save address draft failed")
	}
}
