// Package catalog holds the storefront's reference lookups: category slugs,
// seller display names and the product catalogue.
package catalog

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type CategorySource interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
}

// Categories caches the category list after the first successful load.
type Categories struct {
	src CategorySource

	mu     sync.RWMutex
	loaded bool
	list   []model.Category
	byID   map[string]model.Category
	bySlug map[string]model.Category
}

func NewCategories(src CategorySource) *Categories {
	return &Categories{src: src}
}

// Load fetches the categories once. Later calls are no-ops until a load
// succeeds.
func (c *Categories) Load(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	list, err := c.src.ListCategories(ctx)
	if err != nil {
		return errors.Wrap(err, "load categories")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = list
	c.byID = make(map[string]model.Category, len(list))
	c.bySlug = make(map[string]model.Category, len(list))
	for _, cat := range list {
		c.byID[cat.ID] = cat
		if cat.Slug != "" {
			c.bySlug[cat.Slug] = cat
		}
	}
	c.loaded = true
	return nil
}

// Slug returns the category's slug, or id itself when it is unknown.
func (c *Categories) Slug(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cat, ok := c.byID[id]; ok && cat.Slug != "" {
		return cat.Slug
	}
	return id
}

func (c *Categories) All() []model.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Category(nil), c.list...)
}

// BySlug resolves a slug from the cache, falling back to a lookup by id for
// links that carry the id instead.
func (c *Categories) BySlug(ctx context.Context, slug string) (*model.Category, error) {
	c.mu.RLock()
	cat, ok := c.bySlug[slug]
	c.mu.RUnlock()
	if ok {
		return &cat, nil
	}
	return c.src.GetCategory(ctx, slug)
}
