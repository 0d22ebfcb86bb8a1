package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/orders"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

const dateLayout = "2006-01-02"

type OrderHandler struct {
	spaces  *storefront.Registry
	metrics *metrics.Metrics
}

func NewOrderHandler(spaces *storefront.Registry, m *metrics.Metrics) *OrderHandler {
	return &OrderHandler{spaces: spaces, metrics: m}
}

func (h *OrderHandler) workspace(r *http.Request) *storefront.Workspace {
	return h.spaces.For(r.Context(), session.FromContext(r.Context()).UserID)
}

// parseFilter reads search, status, from and to. ok is false when none is set.
func parseFilter(r *http.Request) (f orders.Filter, ok bool, err error) {
	q := r.URL.Query()
	for _, k := range []string{"search", "status", "from", "to"} {
		if q.Has(k) {
			ok = true
		}
	}
	f.Search = q.Get("search")
	f.Status = q.Get("status")
	if f.Status != "" && f.Status != orders.StatusAll && !model.OrderStatus(f.Status).Valid() {
		return f, ok, errBadStatus
	}
	if v := q.Get("from"); v != "" {
		if f.From, err = time.Parse(dateLayout, v); err != nil {
			return f, ok, err
		}
	}
	if v := q.Get("to"); v != "" {
		if f.To, err = time.Parse(dateLayout, v); err != nil {
			return f, ok, err
		}
	}
	return f, ok, nil
}

// List refreshes the caller's orders and applies the filter from the query,
// or the last one set when the query carries none.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	f, set, err := parseFilter(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid filter: "+err.Error())
		return
	}
	ws := h.workspace(r)
	ws.Orders.Refresh(r.Context())
	if set {
		writeJSON(w, http.StatusOK, ws.Orders.SetFilter(f))
		return
	}
	ws.Orders.FlushSearch()
	writeJSON(w, http.StatusOK, ws.Orders.State())
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search records search-as-you-type input; it applies once typing pauses.
func (h *OrderHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.workspace(r).Orders.SetSearch(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

// Transition applies cancel, confirm, redo or remove to one order.
func (h *OrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	act, ok := orders.ParseAction(chi.URLParam(r, "action"))
	if !ok {
		WriteError(w, r, http.StatusNotFound, "unknown order action")
		return
	}
	number := chi.URLParam(r, "orderNumber")

	// the policy must see the current status, not the last listing
	ws := h.workspace(r)
	ws.Orders.Refresh(r.Context())
	o, found := ws.Orders.Find(number)
	if !found {
		WriteError(w, r, http.StatusNotFound, "order not found")
		return
	}

	to, err := ws.Actions.Apply(r.Context(), act, o, confirmed(r))
	if h.metrics != nil {
		h.metrics.OrderActions.WithLabelValues(string(act), metrics.Outcome(err)).Inc()
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if to != "" {
		redirectTo(w, r, to)
		return
	}
	writeJSON(w, http.StatusOK, ws.Orders.State())
}

type orderDetail struct {
	*model.Order
	Actions []orders.Action `json:"actions"`
}

func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	o, err := h.workspace(r).Orders.GetOrder(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderDetail{
		Order:   o,
		Actions: orders.Permitted(*o, session.FromContext(r.Context())),
	})
}
