package orders

import (
	"strings"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

// StatusAll disables the status filter.
const StatusAll = "ALL"

// Filter narrows the order list. Zero From/To leave that side open.
type Filter struct {
	Search string    `json:"search,omitempty"`
	Status string    `json:"status,omitempty"`
	From   time.Time `json:"from,omitempty"`
	To     time.Time `json:"to,omitempty"`
}

// Match reports whether o passes every set criterion. To covers its whole day.
func (f Filter) Match(o model.Order) bool {
	if f.Status != "" && f.Status != StatusAll && string(o.Status) != f.Status {
		return false
	}
	if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && o.CreatedAt.After(endOfDay(f.To)) {
		return false
	}
	return matchesSearch(o, f.Search)
}

func (f Filter) Apply(orders []model.Order) []model.Order {
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

func matchesSearch(o model.Order, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.OrderNumber), q) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.ProductName), q) {
			return true
		}
	}
	return false
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
