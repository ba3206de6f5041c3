package config

// EnvPrefix namespaces every environment variable read by envconfig.
const EnvPrefix = "GEARMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Canonical env var names, shared with tests and operational tooling.
const (
	EnvAppEnv                 = "GEARMART_APP_ENV"
	EnvPort                   = "GEARMART_APP_PORT"
	EnvDBDriver               = "GEARMART_DB_DRIVER"
	EnvDBPath                 = "GEARMART_DB_PATH"
	EnvDBDSN                  = "GEARMART_DB_DSN"
	EnvRedisURL               = "GEARMART_REDIS_URL"
	EnvJWTSecret              = "GEARMART_JWT_SECRET"
	EnvJWTIssuer              = "GEARMART_JWT_ISSUER"
	EnvJWTExpMins             = "GEARMART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "GEARMART_REFRESH_TOKEN_TTL_MINUTES"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)
