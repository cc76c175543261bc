package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	AI            AIConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"finagents"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type HTTPConfig struct {
	Port            int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// AIConfig selects the analysis backend and the generation defaults shared by all agents
type AIConfig struct {
	Provider    string        `envconfig:"AI_PROVIDER" default:"openai"`
	OpenAIKey   string        `envconfig:"OPENAI_API_KEY"`
	ClaudeKey   string        `envconfig:"CLAUDE_API_KEY"`
	DeepSeekKey string        `envconfig:"DEEPSEEK_API_KEY"`
	GeminiKey   string        `envconfig:"GEMINI_API_KEY"`
	BaseURL     string        `envconfig:"AI_BASE_URL"`
	Model       string        `envconfig:"AI_MODEL"`
	Temperature float64       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	MaxTokens   int           `envconfig:"AI_MAX_TOKENS" default:"2000"`
	Timeout     time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"90s"`

	// NewsTemperature applies to the news agent only
	NewsTemperature float64 `envconfig:"AI_NEWS_TEMPERATURE" default:"0.4"`

	// AgentKeys overrides the credential per agent, e.g. "news:sk-...,economic:sk-..."
	AgentKeys map[string]string `envconfig:"AI_AGENT_API_KEYS"`
}

// Key returns the credential configured for the selected provider. The provider
// name is matched case-insensitively and may use the "claude"/"gemini" aliases.
func (c AIConfig) Key() string {
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case "anthropic", "claude":
		return c.ClaudeKey
	case "deepseek":
		return c.DeepSeekKey
	case "gemini", "google":
		return c.GeminiKey
	default:
		return c.OpenAIKey
	}
}

// PostgresConfig holds the company data store settings. An empty host disables it.
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"finagents"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) Enabled() bool { return c.Host != "" }

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"finagents"`
}

func (c ClickHouseConfig) Enabled() bool { return c.Host != "" }

type RedisConfig struct {
	Host      string        `envconfig:"REDIS_HOST"`
	Port      int           `envconfig:"REDIS_PORT" default:"6379"`
	Password  string        `envconfig:"REDIS_PASSWORD"`
	DB        int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL  time.Duration `envconfig:"REDIS_CACHE_TTL" default:"15m"`
	KeyPrefix string        `envconfig:"REDIS_KEY_PREFIX" default:"finagents:"`
}

func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Brokers    []string `envconfig:"KAFKA_BROKERS"`
	GroupID    string   `envconfig:"KAFKA_GROUP_ID" default:"finagents"`
	RunsTopic  string   `envconfig:"KAFKA_ANALYSIS_RUNS_TOPIC" default:"analysis.runs"`
	RequireAll bool     `envconfig:"KAFKA_REQUIRE_ALL_ACKS" default:"false"`
}

func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

type ErrorTrackingConfig struct {
	Enabled     bool    `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	Provider    string  `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string  `envconfig:"SENTRY_DSN"`
	Environment string  `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
	SampleRate  float64 `envconfig:"SENTRY_SAMPLE_RATE" default:"1.0"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values envconfig cannot express as tags
func (c *Config) Validate() error {
	var errs errors.MultiError

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		errs.Add(errors.NewValidationError("AI_TEMPERATURE", "must be within [0, 2]", c.AI.Temperature))
	}
	if c.AI.NewsTemperature < 0 || c.AI.NewsTemperature > 2 {
		errs.Add(errors.NewValidationError("AI_NEWS_TEMPERATURE", "must be within [0, 2]", c.AI.NewsTemperature))
	}
	if c.AI.MaxTokens <= 0 {
		errs.Add(errors.NewValidationError("AI_MAX_TOKENS", "must be positive", c.AI.MaxTokens))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs.Add(errors.NewValidationError("HTTP_PORT", "out of range", c.HTTP.Port))
	}
	if c.ErrorTracking.Enabled && c.ErrorTracking.Provider == "sentry" && c.ErrorTracking.SentryDSN == "" {
		errs.Add(errors.NewValidationError("SENTRY_DSN", "required when error tracking is enabled", nil))
	}

	return errs.ToError()
}
