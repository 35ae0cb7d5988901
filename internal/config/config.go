// Package config loads the order service configuration from the
// environment, an optional .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string   `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP     HTTP     `yaml:"http"`
	GRPC     GRPC     `yaml:"grpc"`
	Postgres PG       `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	SagaLog  SagaLog  `yaml:"saga_log"`
	Services Services `yaml:"services"`
	Carrier  Carrier  `yaml:"carrier"`
	Shipping Shipping `yaml:"shipping"`
	OTel     OTel     `yaml:"otel"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":3334"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type GRPC struct {
	Addr string `yaml:"addr" env:"GRPC_ADDR" env-default:":9090"`
}

// PG is optional; an empty URL selects the in-memory stores. SeedCustomers
// loads the development customers into an empty customers table.
type PG struct {
	URL           string `yaml:"url" env:"DATABASE_URL"`
	SeedCustomers bool   `yaml:"seed_customers" env:"SEED_CUSTOMERS" env-default:"true"`
}

// Redis is optional; an empty address selects the in-process quote cache.
type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR"`
}

// SagaLog is optional; an empty path keeps the workflow log in memory.
type SagaLog struct {
	Path string `yaml:"path" env:"SAGA_LOG_PATH" env-default:"./data/workflow.db"`
}

type Services struct {
	ProductsURL     string        `yaml:"products_url" env:"PRODUCTS_API_URL"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" env:"UPSTREAM_TIMEOUT" env-default:"10s"`
}

type Carrier struct {
	URL           string  `yaml:"url" env:"MELHOR_ENVIO_API_URL"`
	AccessToken   string  `yaml:"access_token" env:"MELHOR_ENVIO_ACCESS_TOKEN"`
	UserAgent     string  `yaml:"user_agent" env:"CARRIER_USER_AGENT" env-default:"orders-service"`
	WarehouseZip  string  `yaml:"warehouse_zipcode" env:"WAREHOUSE_ZIPCODE"`
	PackageHeight float64 `yaml:"package_height" env:"PACKAGE_HEIGHT" env-default:"10"`
	PackageWidth  float64 `yaml:"package_width" env:"PACKAGE_WIDTH" env-default:"15"`
	PackageLength float64 `yaml:"package_length" env:"PACKAGE_LENGTH" env-default:"20"`
	PackageWeight float64 `yaml:"package_weight" env:"PACKAGE_WEIGHT" env-default:"1"`
}

type Shipping struct {
	CacheTTL  time.Duration `yaml:"cache_ttl" env:"SHIPPING_CACHE_TTL" env-default:"240h"`
	CacheSize int           `yaml:"cache_size" env:"SHIPPING_CACHE_SIZE" env-default:"10000"`
}

type OTel struct {
	Enabled     bool    `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"order-service"`
	Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317"`
	SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_SAMPLE_RATIO" env-default:"1"`
}

// Load reads .env (if present), then CONFIG_PATH (if set), then the
// environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}
	return cfg
}

// Validate checks the settings that have no sensible default.
func (c *Config) Validate() error {
	var errs []error
	if c.Services.ProductsURL == "" {
		errs = append(errs, errors.New("PRODUCTS_API_URL is required"))
	}
	if c.Carrier.URL == "" {
		errs = append(errs, errors.New("MELHOR_ENVIO_API_URL is required"))
	}
	if c.Carrier.AccessToken == "" {
		errs = append(errs, errors.New("MELHOR_ENVIO_ACCESS_TOKEN is required"))
	}
	if c.Carrier.WarehouseZip == "" {
		errs = append(errs, errors.New("WAREHOUSE_ZIPCODE is required"))
	}
	if c.Shipping.CacheSize <= 0 {
		errs = append(errs, errors.New("SHIPPING_CACHE_SIZE must be positive"))
	}
	if c.Shipping.CacheTTL <= 0 {
		errs = append(errs, errors.New("SHIPPING_CACHE_TTL must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
