package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/media"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type SellerHandler struct {
	products *catalog.Products
	uploader *media.Uploader
}

func NewSellerHandler(products *catalog.Products, uploader *media.Uploader) *SellerHandler {
	return &SellerHandler{products: products, uploader: uploader}
}

func (h *SellerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ps, err := h.products.BySeller(r.Context(), session.FromContext(r.Context()).UserID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if ps == nil {
		ps = []model.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

// owned loads the product in the URL and checks it belongs to the caller.
// Someone else's product answers 404.
func (h *SellerHandler) owned(w http.ResponseWriter, r *http.Request) (*model.Product, bool) {
	p, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return nil, false
	}
	if p.UserID != session.FromContext(r.Context()).UserID {
		WriteError(w, r, http.StatusNotFound, "product not found")
		return nil, false
	}
	return p, true
}

func (h *SellerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.products.Create(r.Context(), req)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *SellerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, ok := h.owned(w, r); !ok {
		return
	}
	p, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *SellerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.owned(w, r); !ok {
		return
	}
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores the image and appends its URL to the product.
func (h *SellerHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.owned(w, r)
	if !ok {
		return
	}
	name, data, ok := readUpload(w, r)
	if !ok {
		return
	}
	m, err := h.uploader.Upload(r.Context(), media.ProductImage, p.ID, name, data)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	updated, err := h.products.Update(r.Context(), p.ID, model.ProductRequest{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		CategoryID:  p.CategoryID,
		Images:      append(p.Images, m.URL),
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}
