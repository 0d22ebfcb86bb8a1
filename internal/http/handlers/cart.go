package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

type ProductLookup interface {
	Get(ctx context.Context, id string) (*model.Product, error)
}

type CartHandler struct {
	spaces   *storefront.Registry
	products ProductLookup
	metrics  *metrics.Metrics
}

func NewCartHandler(spaces *storefront.Registry, products ProductLookup, m *metrics.Metrics) *CartHandler {
	return &CartHandler{spaces: spaces, products: products, metrics: m}
}

func (h *CartHandler) store(r *http.Request) *cart.Store {
	return h.spaces.For(r.Context(), session.FromContext(r.Context()).UserID).Cart
}

// ItemCount reloads the caller's cart and counts its lines. It backs the
// non-empty-cart guard.
func (h *CartHandler) ItemCount(ctx context.Context) int {
	s := session.FromContext(ctx)
	if !s.Authenticated() {
		return 0
	}
	st := h.spaces.For(ctx, s.UserID).Cart
	st.Load(ctx)
	return st.Snapshot().ItemCount()
}

func (h *CartHandler) observe(op string, err error) {
	if h.metrics != nil {
		h.metrics.CartMutations.WithLabelValues(op, metrics.Outcome(err)).Inc()
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store(r).Snapshot())
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddItem puts a product in the cart with its current price and stock.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		WriteError(w, r, http.StatusBadRequest, "productId is required")
		return
	}
	p, err := h.products.Get(r.Context(), req.ProductID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	item := model.CartItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Quantity:    req.Quantity,
		SellerID:    p.UserID,
		CategoryID:  p.CategoryID,
		ImageURL:    p.FirstImage(),
	}
	st := h.store(r)
	err = st.Add(r.Context(), item, p.Quantity)
	h.observe("add", err)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Snapshot())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "quantity must be a number")
		return
	}
	st := h.store(r)
	err = st.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), n)
	h.observe("update", err)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Snapshot())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	err := st.Remove(r.Context(), chi.URLParam(r, "productId"))
	h.observe("remove", err)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Snapshot())
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	err := st.Clear(r.Context(), confirmed(r))
	h.observe("clear", err)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Snapshot())
}
