package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type AnalyticsClient struct{ c *Client }

func NewAnalyticsClient(c *Client) *AnalyticsClient { return &AnalyticsClient{c: c} }

type clientAnalytics struct {
	TotalSpent         model.Money `json:"totalSpent"`
	MostBoughtProducts []struct {
		ProductID   string      `json:"productId"`
		Name        string      `json:"name"`
		TotalQty    int         `json:"totalQty"`
		TotalAmount model.Money `json:"totalAmount"`
		Category    string      `json:"category"`
	} `json:"mostBoughtProducts"`
	TopCategories []struct {
		Category   string      `json:"category"`
		TotalSpent model.Money `json:"totalSpent"`
	} `json:"topCategories"`
}

type sellerAnalytics struct {
	TotalRevenue        model.Money `json:"totalRevenue"`
	BestSellingProducts []struct {
		ProductID string      `json:"productId"`
		Name      string      `json:"name"`
		UnitsSold int         `json:"unitsSold"`
		Revenue   model.Money `json:"revenue"`
		Category  string      `json:"category"`
	} `json:"bestSellingProducts"`
	TopCategories []struct {
		Category     string      `json:"category"`
		TotalRevenue model.Money `json:"totalRevenue"`
	} `json:"topCategories"`
}

// ClientAnalytics returns what a buyer spent and on what.
func (ac *AnalyticsClient) ClientAnalytics(ctx context.Context, userID string) (*model.Analytics, error) {
	raw, err := doEnvelope[*clientAnalytics](ctx, ac.c, http.MethodGet, "/api/analytics/client/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	out := &model.Analytics{Items: []model.AnalyticsItem{}, Categories: []string{}, CategoryAmounts: []model.Money{}}
	if raw == nil {
		return out, nil
	}
	out.TotalAmount = raw.TotalSpent
	for _, p := range raw.MostBoughtProducts {
		out.Items = append(out.Items, model.AnalyticsItem{
			ProductID:  p.ProductID,
			Name:       p.Name,
			Count:      p.TotalQty,
			Amount:     p.TotalAmount,
			Categories: categoryList(p.Category),
		})
	}
	for _, c := range raw.TopCategories {
		out.Categories = append(out.Categories, c.Category)
		out.CategoryAmounts = append(out.CategoryAmounts, c.TotalSpent)
	}
	return out, nil
}

// SellerAnalytics returns a seller's revenue and best sellers.
func (ac *AnalyticsClient) SellerAnalytics(ctx context.Context, userID string) (*model.Analytics, error) {
	raw, err := doEnvelope[*sellerAnalytics](ctx, ac.c, http.MethodGet, "/api/analytics/seller/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	out := &model.Analytics{Items: []model.AnalyticsItem{}, Categories: []string{}, CategoryAmounts: []model.Money{}}
	if raw == nil {
		return out, nil
	}
	out.TotalAmount = raw.TotalRevenue
	for _, p := range raw.BestSellingProducts {
		out.Items = append(out.Items, model.AnalyticsItem{
			ProductID:  p.ProductID,
			Name:       p.Name,
			Count:      p.UnitsSold,
			Amount:     p.Revenue,
			Categories: categoryList(p.Category),
		})
	}
	for _, c := range raw.TopCategories {
		out.Categories = append(out.Categories, c.Category)
		out.CategoryAmounts = append(out.CategoryAmounts, c.TotalRevenue)
	}
	return out, nil
}

func categoryList(c string) []string {
	if c == "" {
		return []string{}
	}
	return []string{c}
}
