package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Source       SourceConfig
	Aggregate    AggregateConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Tracing      TracingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"department-summary"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// Source kinds.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// SourceConfig selects where user records come from.
type SourceConfig struct {
	Kind      string        `env:"SOURCE_KIND" envDefault:"http"`
	URL       string        `env:"SOURCE_URL" envDefault:"https://dummyjson.com/users"`
	UsersPath string        `env:"SOURCE_USERS_PATH" envDefault:"users"`
	Timeout   time.Duration `env:"SOURCE_TIMEOUT" envDefault:"10s"`
}

// AggregateConfig tunes the aggregation pass and refresh cadence.
type AggregateConfig struct {
	MalformedPolicy string        `env:"AGGREGATE_MALFORMED_POLICY" envDefault:"skip"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"0s"`
}

// Summary store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// StoreConfig selects the summary cell backend.
type StoreConfig struct {
	Kind     string `env:"SUMMARY_STORE" envDefault:"memory"`
	RedisKey string `env:"SUMMARY_REDIS_KEY" envDefault:"department-summary:current"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"false"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"`
}

// AuthConfig defines operator token parameters.
type AuthConfig struct {
	JWTSecret       string `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	TokenTTLMinutes int    `env:"AUTH_TOKEN_TTL_MINUTES" envDefault:"60"`
}

// NotificationConfig holds the cycle event webhook.
type NotificationConfig struct {
	WebhookURL string        `env:"NOTIFY_WEBHOOK_URL"`
	Timeout    time.Duration `env:"NOTIFY_WEBHOOK_TIMEOUT" envDefault:"5s"`
}

// TracingConfig enables OTLP trace export when Endpoint is set.
type TracingConfig struct {
	Endpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
}

// Load reads configuration from .env and environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Source.Kind {
	case SourceHTTP, SourcePostgres:
	default:
		return nil, fmt.Errorf("invalid SOURCE_KIND %q", cfg.Source.Kind)
	}
	if cfg.Source.Kind == SourcePostgres && cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("SOURCE_KIND=postgres requires POSTGRES_DSN")
	}

	switch cfg.Store.Kind {
	case StoreMemory, StoreRedis:
	default:
		return nil, fmt.Errorf("invalid SUMMARY_STORE %q", cfg.Store.Kind)
	}

	switch cfg.Logger.Format {
	case "json", "console":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.Logger.Format)
	}

	if cfg.Aggregate.RefreshInterval < 0 {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: must not be negative")
	}

	return &cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the lifetime of minted operator tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}
