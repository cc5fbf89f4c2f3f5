package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported document store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	OpenAI    OpenAIConfig
	Assistant AssistantConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
	RateLimitRPS   float64 // Requests per second allowed on the assistant endpoint (0 disables)
	RateLimitBurst int
}

// StoreConfig selects and configures the document store
type StoreConfig struct {
	Driver     string
	PostgreSQL PostgreSQLConfig
	Mongo      MongoConfig
	Memory     MemoryConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // Full connection string, takes precedence over the individual fields
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// MemoryConfig holds the in-memory store configuration
type MemoryConfig struct {
	SeedFile string // Optional JSON fixture with accommodations, rooms and ratings
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatTopP        float64
	ChatMaxTokens   int
	ChatExtraBody   string // JSON string for extra_body (e.g., {"chat_template_kwargs":{"thinking":false}})
	Timeout         int
	Enabled         bool
}

// AssistantConfig holds the question-answering pipeline configuration
type AssistantConfig struct {
	CallTimeout         time.Duration // Bound on every single completion, store or fetch call
	PlatformInfoURL     string
	PlatformInfoTTL     time.Duration
	BreakerThreshold    int
	BreakerOpenDuration time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 3500),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID"),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
			PostgreSQL: PostgreSQLConfig{
				DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
				Host:               getEnv("PG_HOST", "localhost"),
				Port:               getEnvAsInt("PG_PORT", 5432),
				User:               getEnv("PG_USER", "postgres"),
				Password:           getEnv("PG_PASSWORD", ""),
				Database:           getEnv("PG_DATABASE", "roomie"),
				SSLMode:            getEnv("PG_SSLMODE", "disable"),
				MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
				MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			},
			Mongo: MongoConfig{
				URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
				Database: getEnv("MONGO_DATABASE", "roomie"),
			},
			Memory: MemoryConfig{
				SeedFile: getEnv("MEMORY_SEED_FILE", ""),
			},
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         strings.TrimRight(getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"), "/"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.7),
			ChatTopP:        getEnvAsFloat("OPENAI_CHAT_TOP_P", 0),
			ChatMaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 200),
			ChatExtraBody:   getEnv("OPENAI_CHAT_EXTRA_BODY", ""),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 30),
			Enabled:         getEnv("OPENAI_API_KEY", "") != "",
		},
		Assistant: AssistantConfig{
			CallTimeout:         getEnvAsDuration("ASSISTANT_CALL_TIMEOUT", 20*time.Second),
			PlatformInfoURL:     getEnv("PLATFORM_INFO_URL", "https://roomie.example.com/about.txt"),
			PlatformInfoTTL:     getEnvAsDuration("PLATFORM_INFO_TTL", 10*time.Minute),
			BreakerThreshold:    getEnvAsInt("COMPLETION_BREAKER_THRESHOLD", 5),
			BreakerOpenDuration: getEnvAsDuration("COMPLETION_BREAKER_OPEN", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q, must be one of: %s, %s, %s",
			c.Store.Driver, StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory)
	}
	if c.Assistant.CallTimeout <= 0 {
		return fmt.Errorf("ASSISTANT_CALL_TIMEOUT must be positive")
	}
	if c.Assistant.BreakerThreshold <= 0 {
		return fmt.Errorf("COMPLETION_BREAKER_THRESHOLD must be positive")
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.Store.PostgreSQL.DSN != "" {
		return c.Store.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Store.PostgreSQL.Host,
		c.Store.PostgreSQL.Port,
		c.Store.PostgreSQL.User,
		c.Store.PostgreSQL.Password,
		c.Store.PostgreSQL.Database,
		c.Store.PostgreSQL.SSLMode,
	)
}

// IsDebug reports whether debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.Logging.Level == "debug"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go duration strings ("15s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	seconds, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
