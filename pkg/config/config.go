package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GEARMART_APP_ENV" required:"true"`
	Port         string `envconfig:"GEARMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GEARMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GEARMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig selects the storage engine. The default is a local sqlite file;
// postgres is available for deployments that outgrow it.
type DBConfig struct {
	Driver string `envconfig:"GEARMART_DB_DRIVER" default:"sqlite"`
	Path   string `envconfig:"GEARMART_DB_PATH" default:"gearmart.db"`
	DSN    string `envconfig:"GEARMART_DB_DSN"`

	MaxOpenConns    int           `envconfig:"GEARMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GEARMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GEARMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GEARMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DriverSQLite:
		if db.Path == "" {
			return fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBPath)
		}
	case DriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("%s is required when the postgres driver is selected", EnvDBDSN)
		}
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"GEARMART_REDIS_URL"`
	Address      string        `envconfig:"GEARMART_REDIS_ADDR"`
	Password     string        `envconfig:"GEARMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"GEARMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GEARMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GEARMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GEARMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GEARMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GEARMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GEARMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GEARMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"GEARMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"GEARMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GEARMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GEARMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GEARMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GEARMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GEARMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow          time.Duration `envconfig:"GEARMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginAccountLimit    int           `envconfig:"GEARMART_AUTH_RATE_LIMIT_LOGIN_ACCOUNT_LIMIT" default:"5"`
	LoginIPLimit         int           `envconfig:"GEARMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow       time.Duration `envconfig:"GEARMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterAccountLimit int           `envconfig:"GEARMART_AUTH_RATE_LIMIT_REGISTER_ACCOUNT_LIMIT" default:"3"`
	RegisterIPLimit      int           `envconfig:"GEARMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GEARMART_AUTO_MIGRATE" default:"false"`
	SeedDemo    bool `envconfig:"GEARMART_SEED_DEMO" default:"true"`
}
