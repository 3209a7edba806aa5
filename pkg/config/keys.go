package config

// EnvPrefix is handed to envconfig; every field carries an explicit envconfig tag.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
	StorageDriverMemory   = "memory"
)

const DefaultSQLitePath = "storefront.db"

const (
	EnvAppEnv           = "STOREFRONT_APP_ENV"
	EnvAppPort          = "STOREFRONT_APP_PORT"
	EnvStorageDriver    = "STOREFRONT_STORAGE_DRIVER"
	EnvStorageNamespace = "STOREFRONT_STORAGE_NAMESPACE"
	EnvDBDSN            = "STOREFRONT_DB_DSN"
	EnvRedisURL         = "STOREFRONT_REDIS_URL"
	EnvCheckoutPhone    = "STOREFRONT_CHECKOUT_PHONE"
	EnvCheckoutCountry  = "STOREFRONT_CHECKOUT_COUNTRY_CODE"
	EnvCatalogSnapshot  = "STOREFRONT_CATALOG_SNAPSHOT_PATH"
	EnvCatalogBaseURL   = "STOREFRONT_CATALOG_BASE_URL"
	EnvCurrencyExponent = "STOREFRONT_CHECKOUT_CURRENCY_EXPONENT"
)
