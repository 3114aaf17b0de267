package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	IdempotencyBackendPostgres = "postgres"
	IdempotencyBackendBolt     = "bolt"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Idempotency IdempotencyConfig
	Redis       RedisConfig
	Workflow    WorkflowConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Telemetry   TelemetryConfig
}

type AppConfig struct {
	Name            string
	Env             string
	Port            string
	Debug           bool
	MaxPayloadBytes int64
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	Timezone        string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type IdempotencyConfig struct {
	Backend       string
	BoltPath      string
	TTL           time.Duration
	SweepInterval time.Duration
	CacheTTL      time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type WorkflowConfig struct {
	AuthToken       string
	CallbackTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, using environment variables", "error", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Env:             viper.GetString("APP_ENV"),
			Port:            viper.GetString("APP_PORT"),
			Debug:           viper.GetBool("APP_DEBUG"),
			MaxPayloadBytes: viper.GetInt64("MAX_PAYLOAD_BYTES"),
		},
		Database: DatabaseConfig{
			URL:             viper.GetString("DATABASE_URL"),
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetString("DB_PORT"),
			Name:            viper.GetString("DB_NAME"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			SSLMode:         viper.GetString("DB_SSL_MODE"),
			Timezone:        viper.GetString("DB_TIMEZONE"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Idempotency: IdempotencyConfig{
			Backend:       strings.ToLower(viper.GetString("IDEMPOTENCY_BACKEND")),
			BoltPath:      viper.GetString("IDEMPOTENCY_BOLT_PATH"),
			TTL:           viper.GetDuration("IDEMPOTENCY_TTL"),
			SweepInterval: viper.GetDuration("IDEMPOTENCY_SWEEP_INTERVAL"),
			CacheTTL:      viper.GetDuration("IDEMPOTENCY_CACHE_TTL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Workflow: WorkflowConfig{
			AuthToken:       viper.GetString("WORKFLOW_AUTH_TOKEN"),
			CallbackTimeout: viper.GetDuration("WORKFLOW_CALLBACK_TIMEOUT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  viper.GetString("OTEL_SERVICE_NAME"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "supplier-intel-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("MAX_PAYLOAD_BYTES", 2*1024*1024)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "supplier_intel")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 15)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("IDEMPOTENCY_BACKEND", IdempotencyBackendPostgres)
	viper.SetDefault("IDEMPOTENCY_BOLT_PATH", "./data/idempotency.db")
	viper.SetDefault("IDEMPOTENCY_TTL", "168h")
	viper.SetDefault("IDEMPOTENCY_SWEEP_INTERVAL", "0")
	viper.SetDefault("IDEMPOTENCY_CACHE_TTL", "30m")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("WORKFLOW_AUTH_TOKEN", "workflow-secret")
	viper.SetDefault("WORKFLOW_CALLBACK_TIMEOUT", "20s")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	viper.SetDefault("OTEL_SERVICE_NAME", viper.GetString("APP_NAME"))
}

// DSN returns the postgres connection string. DATABASE_URL wins over the
// discrete DB_* settings and gets sslmode=require unless it names a mode.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		if strings.Contains(c.URL, "sslmode") {
			return c.URL
		}
		sep := "?"
		if strings.Contains(c.URL, "?") {
			sep = "&"
		}
		return c.URL + sep + "sslmode=require"
	}

	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// SweepEnabled reports whether the TTL sweep should run
func (c *IdempotencyConfig) SweepEnabled() bool {
	return c.SweepInterval > 0 && c.TTL > 0
}
