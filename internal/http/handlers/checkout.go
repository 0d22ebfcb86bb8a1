package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

type CheckoutHandler struct {
	spaces  *storefront.Registry
	metrics *metrics.Metrics
}

func NewCheckoutHandler(spaces *storefront.Registry, m *metrics.Metrics) *CheckoutHandler {
	return &CheckoutHandler{spaces: spaces, metrics: m}
}

type checkoutView struct {
	checkout.State
	Cart cart.Snapshot `json:"cart"`
}

func (h *CheckoutHandler) workspace(r *http.Request) *storefront.Workspace {
	return h.spaces.For(r.Context(), session.FromContext(r.Context()).UserID)
}

func (h *CheckoutHandler) view(ws *storefront.Workspace, st checkout.State) checkoutView {
	return checkoutView{State: st, Cart: ws.Cart.Snapshot()}
}

// Get shows the wizard. A finished checkout starts over for the new cart.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	ws.Checkout.Restart()
	writeJSON(w, http.StatusOK, h.view(ws, ws.Checkout.State()))
}

func (h *CheckoutHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var a model.Address
	if !decodeJSON(w, r, &a) {
		return
	}
	ws := h.workspace(r)
	ws.Checkout.UpdateDraft(r.Context(), a)
	writeJSON(w, http.StatusAccepted, h.view(ws, ws.Checkout.State()))
}

func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	var a model.Address
	if !decodeJSON(w, r, &a) {
		return
	}
	ws := h.workspace(r)
	st, err := ws.Checkout.SubmitAddress(r.Context(), a)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(ws, st))
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	writeJSON(w, http.StatusOK, h.view(ws, ws.Checkout.Back()))
}

type confirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws := h.workspace(r)
	writeJSON(w, http.StatusOK, h.view(ws, ws.Checkout.ConfirmReview(req.Confirmed)))
}

// PlaceOrder submits the order and redirects to its detail page.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	to, err := ws.Checkout.PlaceOrder(r.Context())
	if h.metrics != nil {
		h.metrics.CheckoutOutcomes.WithLabelValues(metrics.Outcome(err)).Inc()
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	redirectTo(w, r, to)
}
