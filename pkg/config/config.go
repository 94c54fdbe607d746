package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "OMEX"

	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Env var names referenced by tests and deploy tooling.
const (
	EnvAppEnv   = "OMEX_APP_ENV"
	EnvPort     = "OMEX_APP_PORT"
	EnvDBDSN    = "OMEX_DB_DSN"
	EnvRedisURL = "OMEX_REDIS_URL"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Quotes       QuotesConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("%s is required", EnvDBDSN)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OMEX_APP_ENV" required:"true"`
	Port         string `envconfig:"OMEX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OMEX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OMEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"OMEX_DB_DSN"`

	MaxOpenConns    int           `envconfig:"OMEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OMEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OMEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OMEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OMEX_REDIS_URL"`
	Address      string        `envconfig:"OMEX_REDIS_ADDR"`
	Password     string        `envconfig:"OMEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"OMEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OMEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OMEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OMEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OMEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OMEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OMEX_FEATURE_AUTO_MIGRATE" default:"false"`
}

type QuotesConfig struct {
	// ValidityDays is the default quote lifetime applied when the caller does
	// not supply valid_until.
	ValidityDays int `envconfig:"OMEX_QUOTE_VALIDITY_DAYS" default:"30"`
}

// Validity returns the configured default quote lifetime.
func (q QuotesConfig) Validity() time.Duration {
	days := q.ValidityDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}
