package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	Catalog  CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if err := cfg.DB.ensureDSN(cfg.Storage.Driver); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Host         string `envconfig:"STOREFRONT_APP_HOST" default:"127.0.0.1"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8787"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`

	// CORSOrigins are the local shell origins allowed to call the storefront host.
	CORSOrigins []string `envconfig:"STOREFRONT_APP_CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Addr returns the listen address of the storefront host.
func (a AppConfig) Addr() string {
	return a.Host + ":" + a.Port
}

type StorageConfig struct {
	Driver    string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"sqlite"`
	Namespace string `envconfig:"STOREFRONT_STORAGE_NAMESPACE"`
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case StorageDriverSQLite, StorageDriverPostgres, StorageDriverRedis, StorageDriverMemory:
		return nil
	}
	return fmt.Errorf("%s must be one of sqlite, postgres, redis, memory (got %q)", EnvStorageDriver, s.Driver)
}

type DBConfig struct {
	DSN string `envconfig:"STOREFRONT_DB_DSN"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"4"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN(driver string) error {
	if db.DSN != "" {
		return nil
	}
	switch driver {
	case StorageDriverSQLite:
		db.DSN = DefaultSQLitePath
	case StorageDriverPostgres:
		return fmt.Errorf("%s is required when %s=postgres", EnvDBDSN, EnvStorageDriver)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"2s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"2s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"2s"`
}

type CheckoutConfig struct {
	ChannelBaseURL   string `envconfig:"STOREFRONT_CHECKOUT_CHANNEL_BASE_URL" default:"https://wa.me"`
	Phone            string `envconfig:"STOREFRONT_CHECKOUT_PHONE"`
	CountryCode      string `envconfig:"STOREFRONT_CHECKOUT_COUNTRY_CODE" default:"62"`
	CurrencySymbol   string `envconfig:"STOREFRONT_CHECKOUT_CURRENCY_SYMBOL" default:"Rp"`
	CurrencyExponent int32  `envconfig:"STOREFRONT_CHECKOUT_CURRENCY_EXPONENT" default:"0"`
	Locale           string `envconfig:"STOREFRONT_CHECKOUT_LOCALE" default:"id"`
}

// CatalogConfig points at the product catalog. When BaseURL is set products are
// fetched from the remote catalog service, otherwise from the JSON snapshot file.
type CatalogConfig struct {
	SnapshotPath        string        `envconfig:"STOREFRONT_CATALOG_SNAPSHOT_PATH" default:"catalog.json"`
	BaseURL             string        `envconfig:"STOREFRONT_CATALOG_BASE_URL"`
	APIKey              string        `envconfig:"STOREFRONT_CATALOG_API_KEY"`
	Timeout             time.Duration `envconfig:"STOREFRONT_CATALOG_TIMEOUT" default:"10s"`
	MaxRetries          uint64        `envconfig:"STOREFRONT_CATALOG_MAX_RETRIES" default:"3"`
	CacheSize           int           `envconfig:"STOREFRONT_CATALOG_CACHE_SIZE" default:"256"`
	PrefetchConcurrency int           `envconfig:"STOREFRONT_CATALOG_PREFETCH_CONCURRENCY" default:"4"`
}

// Remote reports whether the catalog is served by the remote catalog service.
func (c CatalogConfig) Remote() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}
