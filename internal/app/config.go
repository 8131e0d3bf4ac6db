package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/yungbote/sitebuilder-backend/internal/data/db"
	"github.com/yungbote/sitebuilder-backend/internal/observability"
	"github.com/yungbote/sitebuilder-backend/internal/platform/openai"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`
	LogMode     string `envconfig:"LOG_MODE" default:"development"`

	DBDriver         string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD"`
	PostgresName     string `envconfig:"POSTGRES_NAME" default:"sitebuilder"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	SQLitePath       string `envconfig:"SQLITE_PATH" default:"sitebuilder.db"`

	JWTSecretKey    string        `envconfig:"JWT_SECRET_KEY" default:"defaultsecret"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"1h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`
	TokenSweepEvery time.Duration `envconfig:"TOKEN_SWEEP_INTERVAL" default:"1h"`

	OpenAIAPIKey    string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel     string        `envconfig:"OPENAI_MODEL" default:"gpt-5"`
	OpenAIMaxTokens int           `envconfig:"OPENAI_MAX_COMPLETION_TOKENS" default:"8192"`
	OpenAITimeout   time.Duration `envconfig:"OPENAI_TIMEOUT" default:"180s"`

	GeneratorTimeout        time.Duration `envconfig:"GENERATOR_TIMEOUT" default:"3m"`
	DownloadRequiresPremium bool          `envconfig:"DOWNLOAD_REQUIRES_PREMIUM" default:"false"`

	RedisAddr          string        `envconfig:"REDIS_ADDR"`
	GenerateRateLimit  int           `envconfig:"GENERATE_RATE_LIMIT" default:"10"`
	GenerateRateWindow time.Duration `envconfig:"GENERATE_RATE_WINDOW" default:"1h"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	OtelEnabled     bool    `envconfig:"OTEL_ENABLED" default:"false"`
	OtelServiceName string  `envconfig:"OTEL_SERVICE_NAME" default:"sitebuilder-api"`
	OtelEnvironment string  `envconfig:"OTEL_ENVIRONMENT" default:"development"`
	OtelVersion     string  `envconfig:"OTEL_SERVICE_VERSION"`
	OtelEndpoint    string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string  `envconfig:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool    `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`
	OtelSampleRatio float64 `envconfig:"OTEL_SAMPLE_RATIO" default:"1"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return Config{}, fmt.Errorf("token TTLs must be positive")
	}
	return cfg, nil
}

// UsesDefaultSecret reports whether JWT_SECRET_KEY was left at its development default.
func (c Config) UsesDefaultSecret() bool {
	return strings.TrimSpace(c.JWTSecretKey) == "" || c.JWTSecretKey == defaultJWTSecret
}

func (c Config) DB() db.Config {
	return db.Config{
		Driver:     c.DBDriver,
		Host:       c.PostgresHost,
		Port:       c.PostgresPort,
		User:       c.PostgresUser,
		Password:   c.PostgresPassword,
		Name:       c.PostgresName,
		SSLMode:    c.PostgresSSLMode,
		SQLitePath: c.SQLitePath,
	}
}

func (c Config) OpenAI() openai.Config {
	return openai.Config{
		APIKey:              c.OpenAIAPIKey,
		BaseURL:             c.OpenAIBaseURL,
		Model:               c.OpenAIModel,
		MaxCompletionTokens: c.OpenAIMaxTokens,
		Timeout:             c.OpenAITimeout,
	}
}

func (c Config) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.OtelEnvironment,
		Version:     c.OtelVersion,
		Endpoint:    c.OtelEndpoint,
		Headers:     c.OtelHeaders,
		Insecure:    c.OtelInsecure,
		SampleRatio: c.OtelSampleRatio,
	}
}
