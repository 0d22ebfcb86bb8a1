package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

type ProductSource interface {
	ListProducts(ctx context.Context, sellerID string) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, req model.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

var ErrInvalidProduct = errors.New("invalid product")

// Products is the catalogue as the storefront views it.
type Products struct {
	src        ProductSource
	categories *Categories
}

func NewProducts(src ProductSource, categories *Categories) *Products {
	return &Products{src: src, categories: categories}
}

func (p *Products) List(ctx context.Context) ([]model.Product, error) {
	return p.src.ListProducts(ctx, "")
}

func (p *Products) BySeller(ctx context.Context, sellerID string) ([]model.Product, error) {
	return p.src.ListProducts(ctx, sellerID)
}

func (p *Products) Get(ctx context.Context, id string) (*model.Product, error) {
	return p.src.GetProduct(ctx, id)
}

// InCategory lists the products whose category matches slug, by slug or id.
func (p *Products) InCategory(ctx context.Context, slug string) ([]model.Product, error) {
	all, err := p.src.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(all))
	for _, pr := range all {
		if pr.CategoryID == slug || (p.categories != nil && p.categories.Slug(pr.CategoryID) == slug) {
			out = append(out, pr)
		}
	}
	return out, nil
}

func (p *Products) Create(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	if err := ValidateProduct(req); err != nil {
		return nil, err
	}
	return p.src.CreateProduct(ctx, req)
}

func (p *Products) Update(ctx context.Context, id string, req model.ProductRequest) (*model.Product, error) {
	if err := ValidateProduct(req); err != nil {
		return nil, err
	}
	return p.src.UpdateProduct(ctx, id, req)
}

func (p *Products) Delete(ctx context.Context, id string) error {
	return p.src.DeleteProduct(ctx, id)
}

// ValidateProduct applies the seller form rules before anything is sent.
func ValidateProduct(req model.ProductRequest) error {
	if err := validation.Struct(req); err != nil {
		return errors.Wrap(ErrInvalidProduct, err.Error())
	}
	return nil
}
