package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the insight agent. It is the
// explicit value object handed to the pipeline's constructor; nothing
// reads the environment after load time.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Retry     RetryConfig     `mapstructure:"retry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
}

// LLMConfig selects the hosted model endpoint and its wire schema.
// Family is "anthropic" (message-style content blocks) or "titan"
// (single-field text generation).
type LLMConfig struct {
	Family      string  `mapstructure:"family"`
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// SearchConfig selects the external web-search backend.
type SearchConfig struct {
	Provider       string `mapstructure:"provider"`
	TavilyAPIKey   string `mapstructure:"tavily_api_key"`
	SerpAPIKey     string `mapstructure:"serpapi_api_key"`
	MaxResults     int    `mapstructure:"max_results"`
	EnrichSnippets bool   `mapstructure:"enrich_snippets"`
}

// APIKey returns the credential matching the configured provider.
func (c SearchConfig) APIKey() string {
	switch c.Provider {
	case "serpapi":
		return c.SerpAPIKey
	default:
		return c.TavilyAPIKey
	}
}

// StorageConfig contains corpus and trace persistence settings.
// TraceBackend is "postgres" or "redis".
type StorageConfig struct {
	TraceBackend string         `mapstructure:"trace_backend"`
	Postgres     PostgresConfig `mapstructure:"postgres"`
	Redis        RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains Postgres connection settings.
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DSN assembles a connection string, preferring an explicit URL.
func (c PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	ssl := c.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, port, c.DBName, ssl)
}

// RedisConfig contains Redis connection settings for the trace store.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
	TraceTTL time.Duration `mapstructure:"trace_ttl"`
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Listen    string `mapstructure:"listen"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// TelemetryConfig contains monitoring settings.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// RetryConfig parameterizes the retry wrapper around outbound calls.
type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
	Backoff  float64       `mapstructure:"backoff"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("insight_config")
	viper.SetConfigType("json")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("NEWSINSIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Config file is optional - defaults plus env cover the common case
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.connect_timeout", "5s")
	viper.SetDefault("general.read_timeout", "25s")

	viper.SetDefault("llm.family", "anthropic")
	viper.SetDefault("llm.max_tokens", 600)
	viper.SetDefault("llm.temperature", 0.2)

	viper.SetDefault("search.provider", "tavily")
	viper.SetDefault("search.max_results", 6)
	viper.SetDefault("search.enrich_snippets", false)

	viper.SetDefault("storage.trace_backend", "postgres")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", 5432)
	viper.SetDefault("storage.postgres.sslmode", "disable")
	viper.SetDefault("storage.postgres.timeout", "5s")
	viper.SetDefault("storage.redis.host", "localhost")
	viper.SetDefault("storage.redis.port", 6379)
	viper.SetDefault("storage.redis.db", 0)
	viper.SetDefault("storage.redis.timeout", "5s")
	viper.SetDefault("storage.redis.trace_ttl", "0")

	viper.SetDefault("server.listen", ":8080")

	viper.SetDefault("telemetry.enabled", true)

	viper.SetDefault("retry.attempts", 3)
	viper.SetDefault("retry.delay", "800ms")
	viper.SetDefault("retry.backoff", 1.6)
}

func overrideFromEnv() {
	if v := os.Getenv("MODEL_ENDPOINT"); v != "" {
		viper.Set("llm.endpoint", v)
	}
	if v := os.Getenv("MODEL_ID"); v != "" {
		viper.Set("llm.model", v)
	}
	if v := os.Getenv("MODEL_API_KEY"); v != "" {
		viper.Set("llm.api_key", v)
	}
	if v := os.Getenv("WEB_SEARCH_PROVIDER"); v != "" {
		viper.Set("search.provider", v)
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		viper.Set("search.tavily_api_key", v)
	}
	if v := os.Getenv("SERPAPI_API_KEY"); v != "" {
		viper.Set("search.serpapi_api_key", v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		viper.Set("storage.postgres.url", v)
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		viper.Set("storage.postgres.host", v)
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			viper.Set("storage.postgres.port", p)
		}
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		viper.Set("storage.postgres.user", v)
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		viper.Set("storage.postgres.password", v)
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		viper.Set("storage.postgres.dbname", v)
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		viper.Set("storage.redis.host", v)
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			viper.Set("storage.redis.port", p)
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		viper.Set("storage.redis.password", v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		viper.Set("server.jwt_secret", v)
	}
}

// Validate enforces the fatal configuration requirements: the agent
// cannot function without a reasoning endpoint. A missing search key is
// deliberately not fatal; evidence gathering degrades at call time.
func Validate(config *Config) error {
	switch config.LLM.Family {
	case "anthropic", "titan":
	default:
		return fmt.Errorf("unsupported llm family %q (want anthropic or titan)", config.LLM.Family)
	}
	if config.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if config.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	switch config.Search.Provider {
	case "tavily", "serpapi":
	default:
		return fmt.Errorf("unsupported search provider %q (want tavily or serpapi)", config.Search.Provider)
	}
	switch config.Storage.TraceBackend {
	case "postgres", "redis":
	default:
		return fmt.Errorf("unsupported trace backend %q (want postgres or redis)", config.Storage.TraceBackend)
	}
	if config.Retry.Attempts < 1 {
		config.Retry.Attempts = 1
	}
	if config.Retry.Backoff <= 0 {
		config.Retry.Backoff = 1.6
	}
	return nil
}
