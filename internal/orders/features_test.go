package orders

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type transitionContext struct {
	api      *fakeAPI
	cart     *fakeCart
	ctx      context.Context
	order    model.Order
	err      error
	redirect string
}

func (c *transitionContext) reset() {
	c.api = &fakeAPI{}
	c.cart = &fakeCart{}
	c.ctx = context.Background()
	c.order = model.Order{}
	c.err = nil
	c.redirect = ""
}

func (c *transitionContext) actions() *Actions {
	return NewActions(c.api, NewView(c.ctx, "viewer", c.api, nil, nil, zerolog.Nop()), c.cart)
}

func (c *transitionContext) aViewingAnOrderInStatus(role, status string) error {
	s := session.Session{Token: "t", UserID: "viewer", Role: model.RoleClient}
	if role == "seller" {
		s.Role = model.RoleSeller
	}
	c.ctx = session.WithSession(context.Background(), s)
	c.order = model.Order{
		OrderNumber: "ORD-1",
		Status:      model.OrderStatus(status),
		Items:       []model.OrderItem{{ProductID: "p0", SellerID: "viewer", Quantity: 1}},
	}
	// seller listings are read through the paged endpoint after a transition
	c.api.pages = []model.Page[model.Order]{{TotalPages: 1, Last: true}}
	return nil
}

func (c *transitionContext) theOrderHasTheseLines(table *godog.Table) error {
	c.order.Items = nil
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		qty, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		c.order.Items = append(c.order.Items, model.OrderItem{ProductID: row.Cells[0].Value, Quantity: qty})
	}
	return nil
}

func (c *transitionContext) theyCancelTheOrder(confirmation string) error {
	c.err = c.actions().Cancel(c.ctx, c.order, cart.Confirmed(confirmation == "with"))
	return nil
}

func (c *transitionContext) theyRedoTheOrder() error {
	c.redirect, c.err = c.actions().Redo(c.ctx, c.order, cart.Confirmed(true))
	return nil
}

func (c *transitionContext) theCancelIs(outcome string) error {
	sent := len(c.api.calls) > 0 && c.api.calls[0] == "cancel:ORD-1"
	switch outcome {
	case "sent":
		if c.err != nil || !sent {
			return fmt.Errorf("expected cancel to be sent, err=%v calls=%v", c.err, c.api.calls)
		}
	case "rejected":
		if !errors.Is(c.err, ErrTransitionNotAllowed) || len(c.api.calls) > 0 {
			return fmt.Errorf("expected rejection without calls, err=%v calls=%v", c.err, c.api.calls)
		}
	case "not confirmed":
		if !errors.Is(c.err, cart.ErrNotConfirmed) || len(c.api.calls) > 0 {
			return fmt.Errorf("expected unconfirmed cancel without calls, err=%v calls=%v", c.err, c.api.calls)
		}
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}
	return nil
}

func (c *transitionContext) addToCartCallsAreMade(n int) error {
	if c.err != nil {
		return c.err
	}
	if len(c.cart.adds) != n {
		return fmt.Errorf("expected %d adds, got %d", n, len(c.cart.adds))
	}
	return nil
}

func (c *transitionContext) theyAreSentTo(path string) error {
	if c.redirect != path {
		return fmt.Errorf("expected redirect %q, got %q", path, c.redirect)
	}
	return nil
}

func InitializeTransitionScenario(sc *godog.ScenarioContext) {
	tc := &transitionContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	sc.Step(`^a (buyer|seller) viewing an order in status (\w+)$`, tc.aViewingAnOrderInStatus)
	sc.Step(`^the order has these lines:$`, tc.theOrderHasTheseLines)
	sc.Step(`^they cancel the order (with|without) confirmation$`, tc.theyCancelTheOrder)
	sc.Step(`^they redo the order$`, tc.theyRedoTheOrder)
	sc.Step(`^the cancel is (sent|rejected|not confirmed)$`, tc.theCancelIs)
	sc.Step(`^(\d+) add-to-cart calls are made$`, tc.addToCartCallsAreMade)
	sc.Step(`^they are sent to "([^"]*)"$`, tc.theyAreSentTo)
}

func TestTransitionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeTransitionScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/transitions.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
