package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type SellerDirectory interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type CatalogHandler struct {
	products   *catalog.Products
	categories *catalog.Categories
	sellers    *catalog.Sellers
	users      SellerDirectory
	logger     zerolog.Logger
}

func NewCatalogHandler(p *catalog.Products, c *catalog.Categories, s *catalog.Sellers, users SellerDirectory, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{products: p, categories: c, sellers: s, users: users, logger: logger}
}

type productView struct {
	model.Product
	SellerName   string `json:"sellerName"`
	CategorySlug string `json:"categorySlug,omitempty"`
	InStock      bool   `json:"inStock"`
}

func (h *CatalogHandler) loadCategories(r *http.Request) {
	if err := h.categories.Load(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("categories unavailable, showing ids")
	}
}

func (h *CatalogHandler) views(r *http.Request, products []model.Product) []productView {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.UserID)
	}
	names := h.sellers.Resolve(r.Context(), ids)

	out := make([]productView, 0, len(products))
	for _, p := range products {
		v := productView{Product: p, SellerName: names[p.UserID], InStock: p.Quantity > 0}
		if p.CategoryID != "" {
			v.CategorySlug = h.categories.Slug(p.CategoryID)
		}
		out = append(out, v)
	}
	return out
}

// ListProducts serves the product listing, optionally narrowed by ?q= and
// ?category=<slug>.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.loadCategories(r)

	var (
		products []model.Product
		err      error
	)
	if slug := r.URL.Query().Get("category"); slug != "" {
		products, err = h.products.InCategory(r.Context(), slug)
	} else {
		products, err = h.products.List(r.Context())
	}
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		kept := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
				kept = append(kept, p)
			}
		}
		products = kept
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"products":   h.views(r, products),
		"categories": h.categories.All(),
	})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	h.loadCategories(r)

	p, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.views(r, []model.Product{*p})[0])
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Load(r.Context()); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.categories.All())
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	h.loadCategories(r)

	slug := chi.URLParam(r, "slug")
	cat, err := h.categories.BySlug(r.Context(), slug)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	products, err := h.products.InCategory(r.Context(), cat.Slug)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": cat,
		"products": h.views(r, products),
	})
}

// SellerShop shows one seller and everything they sell.
func (h *CatalogHandler) SellerShop(w http.ResponseWriter, r *http.Request) {
	h.loadCategories(r)

	id := chi.URLParam(r, "id")
	seller, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	products, err := h.products.BySeller(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"seller":   seller,
		"products": h.views(r, products),
	})
}
