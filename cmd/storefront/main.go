package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/media"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("storefront", "info")
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := logging.New("storefront", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("storefront stopped")
	}
}

// backing holds the storage and event plumbing selected by config.
type backing struct {
	store     storage.Store
	sequences events.SequenceRepository
	publisher events.Publisher
	closers   []func()
}

func (b *backing) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBacking(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*backing, error) {
	b := &backing{}

	switch cfg.StorageDriver {
	case "file":
		f, err := storage.NewFile(cfg.StoragePath)
		if err != nil {
			return nil, errors.Wrap(err, "open file storage")
		}
		b.store = f
	case "postgres":
		if err := storage.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			return nil, err
		}
		pool, err := storage.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, errors.Wrap(err, "connect postgres")
		}
		b.closers = append(b.closers, pool.Close)

		db, err := storage.OpenDB(cfg.DatabaseDSN)
		if err != nil {
			b.close()
			return nil, errors.Wrap(err, "open sequence db")
		}
		b.closers = append(b.closers, func() { _ = db.Close() })

		b.store = storage.NewPostgres(pool)
		b.sequences = events.NewSequenceRepository(db)
	default:
		b.store = storage.NewMemory()
	}

	b.publisher = events.Noop{}
	if cfg.RabbitURL != "" {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			b.close()
			return nil, errors.Wrap(err, "connect rabbitmq")
		}
		pub, err := events.NewRabbit(conn)
		if err != nil {
			_ = conn.Close()
			b.close()
			return nil, err
		}
		b.publisher = pub
		b.closers = append(b.closers, func() {
			_ = pub.Close()
			_ = conn.Close()
		})
	}
	return b, nil
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	policy, err := cfg.PricingPolicy()
	if err != nil {
		return err
	}

	b, err := openBacking(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.close()

	// Base HTTP transport (shared); retries are per client
	sharedHTTP := &http.Client{Timeout: cfg.UpstreamTimeout}
	clientLogger := logging.Component(logger, "clients")

	userBase := clients.NewClient("user-service", cfg.UserURL, sharedHTTP, cfg.ReadRetryMax, clientLogger)
	productBase := clients.NewClient("product-service", cfg.ProductURL, sharedHTTP, cfg.ReadRetryMax, clientLogger)
	orderBase := clients.NewClient("order-service", cfg.OrderURL, sharedHTTP, cfg.ReadRetryMax, clientLogger)
	mediaBase := clients.NewClient("media-service", cfg.MediaURL, sharedHTTP, cfg.ReadRetryMax, clientLogger)

	users := clients.NewUserClient(userBase)
	products := clients.NewProductClient(productBase)
	orderClient := clients.NewOrderClient(orderBase)

	categories := catalog.NewCategories(clients.NewCategoryClient(productBase))
	sellers := catalog.NewSellers(users, logging.Component(logger, "sellers"))
	productCatalog := catalog.NewProducts(products, categories)

	warmCtx, cancelWarm := context.WithTimeout(ctx, cfg.UpstreamTimeout)
	if err := categories.Load(warmCtx); err != nil {
		logger.Warn().Err(err).Msg("categories not loaded at startup, will retry on demand")
	}
	sellers.Preload(warmCtx)
	cancelWarm()

	emitter := events.NewEmitter(b.publisher, b.sequences, logging.Component(logger, "events"))

	registry := storefront.NewRegistry(storefront.Deps{
		Cart:             clients.NewCartClient(orderBase),
		Orders:           orderClient,
		Products:         products,
		Sellers:          sellers,
		Categories:       categories,
		Storage:          b.store,
		Events:           emitter,
		Policy:           policy,
		SearchDebounce:   cfg.SearchDebounce,
		AutosaveDebounce: cfg.AutosaveDebounce,
		Logger:           logger,
	})
	defer registry.Close()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go registry.Run(sweepCtx, cfg.WorkspaceSweepInterval, cfg.WorkspaceIdleTTL)

	healthProbes := []clients.HealthProbe{
		{Name: "user-service", Client: userBase, Path: "/actuator/health"},
		{Name: "product-service", Client: productBase, Path: "/actuator/health"},
		{Name: "order-service", Client: orderBase, Path: "/actuator/health"},
		{Name: "media-service", Client: mediaBase, Path: "/actuator/health"},
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:       logger,
		Cfg:          cfg,
		Workspaces:   registry,
		Products:     productCatalog,
		Categories:   categories,
		Sellers:      sellers,
		Users:        users,
		Auth:         clients.NewAuthClient(userBase),
		Analytics:    clients.NewAnalyticsClient(orderBase),
		Uploader:     media.NewUploader(clients.NewMediaClient(mediaBase)),
		Metrics:      metrics.New(),
		Storage:      b.store,
		HealthProbes: healthProbes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server error")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("shutdown complete")
	return nil
}
