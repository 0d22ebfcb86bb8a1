package orders

import (
	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type Action string

const (
	ActionCancel  Action = "cancel"
	ActionConfirm Action = "confirm"
	ActionRedo    Action = "redo"
	ActionRemove  Action = "remove"
)

var ErrTransitionNotAllowed = errors.New("order transition not allowed")

// Actions in display order.
var allActions = []Action{ActionConfirm, ActionCancel, ActionRedo, ActionRemove}

// Allowed reports whether the session may apply a to o.
//
//	PENDING, CONFIRMED  cancel   buyer or seller
//	PENDING             confirm  seller with lines in the order
//	CANCELLED           redo     buyer
//	CANCELLED           remove   anyone
func Allowed(a Action, o model.Order, s session.Session) bool {
	switch a {
	case ActionCancel:
		return (o.Status == model.StatusPending || o.Status == model.StatusConfirmed) &&
			(s.IsClient() || s.IsSeller())
	case ActionConfirm:
		return o.Status == model.StatusPending && s.IsSeller() && o.HasSeller(s.UserID)
	case ActionRedo:
		return o.Status == model.StatusCancelled && s.IsClient()
	case ActionRemove:
		return o.Status == model.StatusCancelled
	}
	return false
}

// Permitted lists the actions the session may apply to o.
func Permitted(o model.Order, s session.Session) []Action {
	out := []Action{}
	for _, a := range allActions {
		if Allowed(a, o, s) {
			out = append(out, a)
		}
	}
	return out
}

func ParseAction(v string) (Action, bool) {
	for _, a := range allActions {
		if string(a) == v {
			return a, true
		}
	}
	return "", false
}
