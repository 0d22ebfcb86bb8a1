package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

// EnvPrefix is prepended to every variable, e.g. STOREFRONT_PORT.
const EnvPrefix = "STOREFRONT"

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`
	// Retries apply to GET requests only; mutations are never retried.
	ReadRetryMax int `envconfig:"READ_RETRY_MAX" default:"2"`

	// Upstream base URLs
	UserURL    string `envconfig:"USER_URL" default:"http://localhost:8456"`
	ProductURL string `envconfig:"PRODUCT_URL" default:"http://localhost:8567"`
	OrderURL   string `envconfig:"ORDER_URL" default:"http://localhost:8789"`
	MediaURL   string `envconfig:"MEDIA_URL" default:"http://localhost:8678"`

	VATRate               string `envconfig:"VAT_RATE" default:"0.24"`
	FlatShipping          string `envconfig:"FLAT_SHIPPING" default:"4.90"`
	FreeShippingThreshold string `envconfig:"FREE_SHIPPING_THRESHOLD" default:"50"`

	SearchDebounce   time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"300ms"`
	AutosaveDebounce time.Duration `envconfig:"AUTOSAVE_DEBOUNCE" default:"500ms"`

	// Workspaces idle longer than WorkspaceIdleTTL are dropped from memory.
	WorkspaceIdleTTL       time.Duration `envconfig:"WORKSPACE_IDLE_TTL" default:"30m"`
	WorkspaceSweepInterval time.Duration `envconfig:"WORKSPACE_SWEEP_INTERVAL" default:"1m"`

	// StorageDriver is one of memory, file, postgres.
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"memory"`
	StoragePath   string `envconfig:"STORAGE_PATH" default:"./data/storefront.json"`
	DatabaseDSN   string `envconfig:"DB_DSN"`

	// RabbitURL enables the storefront event feed when set.
	RabbitURL string `envconfig:"RABBITMQ_URL"`

	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`

	// StoredSession lets requests without credentials use the session kept
	// in storage under the token and user keys.
	StoredSession bool `envconfig:"STORED_SESSION" default:"false"`
}

// Load reads an optional .env file, then the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// a missing .env is normal outside local development
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "process env config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case "memory", "file":
	case "postgres":
		if c.DatabaseDSN == "" {
			return errors.New("STOREFRONT_DB_DSN is required for the postgres storage driver")
		}
	default:
		return errors.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.ReadRetryMax < 0 {
		return errors.New("STOREFRONT_READ_RETRY_MAX must not be negative")
	}
	if c.WorkspaceIdleTTL <= 0 || c.WorkspaceSweepInterval <= 0 {
		return errors.New("STOREFRONT_WORKSPACE_IDLE_TTL and STOREFRONT_WORKSPACE_SWEEP_INTERVAL must be positive")
	}
	_, err := c.PricingPolicy()
	return err
}

func (c Config) PricingPolicy() (pricing.Policy, error) {
	vat, err := decimal.NewFromString(c.VATRate)
	if err != nil {
		return pricing.Policy{}, errors.Wrap(err, "parse VAT rate")
	}
	flat, err := decimal.NewFromString(c.FlatShipping)
	if err != nil {
		return pricing.Policy{}, errors.Wrap(err, "parse flat shipping")
	}
	threshold, err := decimal.NewFromString(c.FreeShippingThreshold)
	if err != nil {
		return pricing.Policy{}, errors.Wrap(err, "parse free shipping threshold")
	}
	if vat.IsNegative() || flat.IsNegative() || threshold.IsNegative() {
		return pricing.Policy{}, errors.New("pricing settings must not be negative")
	}
	return pricing.Policy{VATRate: vat, FlatShipping: flat, FreeShippingThreshold: threshold}, nil
}
