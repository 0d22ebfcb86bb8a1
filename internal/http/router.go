package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/guard"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/handlers"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/media"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

type Deps struct {
	Logger zerolog.Logger
	Cfg    config.Config

	Workspaces *storefront.Registry
	Products   *catalog.Products
	Categories *catalog.Categories
	Sellers    *catalog.Sellers
	Users      *clients.UserClient
	Auth       *clients.AuthClient
	Analytics  *clients.AnalyticsClient
	Uploader   *media.Uploader
	Metrics    *metrics.Metrics
	// Storage backs the stored-session fallback when Cfg.StoredSession is set.
	Storage storage.Store

	HealthProbes []clients.HealthProbe
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// outer -> inner
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recover(d.Logger))
	r.Use(middleware.Logging(d.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSAllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Content-Type", session.HeaderAuthorization,
			session.HeaderUserID, session.HeaderUserRole, middleware.HeaderCorrelationID,
		},
		ExposedHeaders: []string{middleware.HeaderCorrelationID, "Location"},
		MaxAge:         300,
	}))
	if d.Cfg.StoredSession && d.Storage != nil {
		r.Use(middleware.StoredSession(d.Storage, d.Logger))
	} else {
		r.Use(middleware.Session)
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	// Health
	health := &handlers.HealthHandler{Probes: d.HealthProbes}
	r.Get("/health", health.Service)
	r.Get("/health/upstreams", health.Upstreams)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	// Catalog (public)
	cat := handlers.NewCatalogHandler(d.Products, d.Categories, d.Sellers, d.Users, d.Logger)
	r.Get(guard.ProductListPath, cat.ListProducts)
	r.Get("/product/{id}", cat.GetProduct)
	r.Get("/categories", cat.ListCategories)
	r.Get("/categories/{slug}", cat.GetCategory)
	r.Get("/seller-shop/{id}", cat.SellerShop)

	cartH := handlers.NewCartHandler(d.Workspaces, d.Products, d.Metrics)
	checkoutH := handlers.NewCheckoutHandler(d.Workspaces, d.Metrics)
	orderH := handlers.NewOrderHandler(d.Workspaces, d.Metrics)
	profile := handlers.NewProfileHandler(d.Users, d.Analytics, d.Uploader, d.Logger)
	seller := handlers.NewSellerHandler(d.Products, d.Uploader)
	var stored storage.Store
	if d.Cfg.StoredSession {
		stored = d.Storage
	}
	authH := handlers.NewAuthHandler(d.Auth, d.Workspaces, stored, d.Logger)

	r.Post("/signin", authH.SignIn)
	r.Post("/signup", authH.SignUp)

	r.Group(func(r chi.Router) {
		r.Use(guard.Authenticated)

		r.Get("/profile", profile.Get)
		r.Put("/profile", profile.Update)
		r.Post("/profile/avatar", profile.UploadAvatar)
		r.Get("/profile/analytics", profile.Analytics)
		r.Post("/signout", authH.SignOut)

		r.Get("/orders", orderH.List)
		r.Put("/orders/search", orderH.Search)
		r.Post("/orders/{orderNumber}/{action}", orderH.Transition)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.SellerOnly)

		r.Get("/seller-dashboard", seller.Dashboard)
		r.Post("/seller/products", seller.Create)
		r.Put("/seller/products/{id}", seller.Update)
		r.Delete("/seller/products/{id}", seller.Delete)
		r.Post("/seller/products/{id}/images", seller.UploadImage)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.ClientOnly)

		r.Post("/cart/items", cartH.AddItem)
		r.Put("/cart/items/{productId}/quantity/{n}", cartH.UpdateQuantity)
		r.Delete("/cart/items/{productId}", cartH.RemoveItem)
		r.Delete("/cart", cartH.Clear)

		r.Get("/order-detail/{orderNumber}", orderH.Detail)

		r.Group(func(r chi.Router) {
			r.Use(guard.NonEmptyCart(cartH.ItemCount))

			r.Get("/cart", cartH.GetCart)
			r.Get("/checkout", checkoutH.Get)
			r.Put("/checkout/address", checkoutH.SubmitAddress)
			r.Put("/checkout/draft", checkoutH.SaveDraft)
			r.Post("/checkout/back", checkoutH.Back)
			r.Post("/checkout/confirm", checkoutH.Confirm)
			r.Post("/checkout/place-order", checkoutH.PlaceOrder)
		})
	})

	return r
}
