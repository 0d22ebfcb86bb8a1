package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/media"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/orders"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

const maxJSONBody = 1 << 20

var errBadStatus = errors.New("unknown order status")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// redirectTo answers 303 so the client follows with a GET.
func redirectTo(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

type validationResponse struct {
	model.ErrorResponse
	Fields map[string]string `json:"fields"`
}

// writeFailure maps a domain or upstream error to a status. Local rejections
// are 4xx; anything from a backend is 502 unless it is a plain not-found.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
			ErrorResponse: model.ErrorResponse{Error: verr.Error(), CorrelationID: middleware.GetCorrelationID(r.Context())},
			Fields:        verr.Fields,
		})
		return
	}
	WriteError(w, r, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrStockLimit),
		errors.Is(err, orders.ErrTransitionNotAllowed),
		errors.Is(err, checkout.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, cart.ErrNotConfirmed):
		return http.StatusPreconditionRequired
	case errors.Is(err, catalog.ErrInvalidProduct):
		return http.StatusUnprocessableEntity
	case errors.Is(err, media.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, media.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, media.ErrEmpty):
		return http.StatusBadRequest
	case clients.StatusOf(err) == http.StatusNotFound:
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// confirmed reads the ?confirm=true answer to a confirmation prompt.
func confirmed(r *http.Request) cart.Confirmer {
	return cart.Confirmed(r.URL.Query().Get("confirm") == "true")
}
