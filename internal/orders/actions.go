package orders

import (
	"context"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// CartPath is where a redo sends the user.
const CartPath = "/cart"

type CartAdder interface {
	Add(ctx context.Context, item model.CartItem, availableStock int) error
}

// Actions applies order transitions. Each one checks the policy, then asks
// for confirmation, and only then calls the API.
type Actions struct {
	api  API
	view *View
	cart CartAdder
}

func NewActions(api API, view *View, cart CartAdder) *Actions {
	return &Actions{api: api, view: view, cart: cart}
}

// Apply dispatches a to the matching method. The returned string is a
// redirect target, set only by redo.
func (a *Actions) Apply(ctx context.Context, act Action, o model.Order, c cart.Confirmer) (string, error) {
	switch act {
	case ActionCancel:
		return "", a.Cancel(ctx, o, c)
	case ActionConfirm:
		return "", a.Confirm(ctx, o, c)
	case ActionRedo:
		return a.Redo(ctx, o, c)
	case ActionRemove:
		return "", a.Remove(ctx, o, c)
	}
	return "", ErrTransitionNotAllowed
}

func (a *Actions) check(ctx context.Context, act Action, o model.Order, c cart.Confirmer, prompt string) error {
	if !Allowed(act, o, session.FromContext(ctx)) {
		return errors.Wrapf(ErrTransitionNotAllowed, "%s order in status %s", act, o.Status)
	}
	return cart.RequireConfirmation(ctx, c, prompt)
}

func (a *Actions) Cancel(ctx context.Context, o model.Order, c cart.Confirmer) error {
	if err := a.check(ctx, ActionCancel, o, c, "Cancel order "+o.OrderNumber+"?"); err != nil {
		return err
	}
	if err := a.api.Cancel(ctx, o.OrderNumber); err != nil {
		return errors.Wrap(err, "cancel order")
	}
	a.view.Refresh(ctx)
	return nil
}

func (a *Actions) Confirm(ctx context.Context, o model.Order, c cart.Confirmer) error {
	if err := a.check(ctx, ActionConfirm, o, c, "Confirm order "+o.OrderNumber+"?"); err != nil {
		return err
	}
	if _, err := a.api.UpdateStatus(ctx, o.OrderNumber, model.StatusConfirmed); err != nil {
		return errors.Wrap(err, "confirm order")
	}
	a.view.Refresh(ctx)
	return nil
}

// Redo puts the cancelled order's lines back in the cart, one add per unit,
// and returns the cart path. It stops at the first failed add.
func (a *Actions) Redo(ctx context.Context, o model.Order, c cart.Confirmer) (string, error) {
	if err := a.check(ctx, ActionRedo, o, c, "Add the items of order "+o.OrderNumber+" to your cart?"); err != nil {
		return "", err
	}
	for _, it := range o.Items {
		line := model.CartItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    1,
			SellerID:    it.SellerID,
			SellerName:  it.SellerName,
			CategoryID:  it.CategoryID,
			ImageURL:    it.ImageURL,
		}
		for i := 0; i < it.Quantity; i++ {
			if err := a.cart.Add(ctx, line, cart.UnknownStock); err != nil {
				return "", errors.Wrapf(err, "redo order %s", o.OrderNumber)
			}
		}
	}
	return CartPath, nil
}

// Remove hides a cancelled order from this user's list.
func (a *Actions) Remove(ctx context.Context, o model.Order, c cart.Confirmer) error {
	if err := a.check(ctx, ActionRemove, o, c, "Remove order "+o.OrderNumber+" from your list?"); err != nil {
		return err
	}
	return errors.Wrap(a.view.hide(ctx, o.OrderNumber), "remove order")
}
