package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Password hashers
const (
	HasherSHA256 = "sha256"
	HasherBcrypt = "bcrypt"
)

type Config struct {
	Port        string
	GinMode     string
	ServiceName string

	LogLevel  string
	LogFormat string

	StoreBackend string
	SQLiteDSN    string

	PasswordHasher string
	BcryptCost     int

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	TracingEnabled    bool
	TracingEndpoint   string
	TracingSampleRate float64

	ShutdownTimeout     time.Duration
	ReadinessDrainDelay time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		ServiceName: getEnv("SERVICE_NAME", "task-tracker-api"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		StoreBackend: getEnv("STORE_BACKEND", StoreMemory),
		SQLiteDSN:    getEnv("SQLITE_DSN", ":memory:"),

		PasswordHasher: getEnv("PASSWORD_HASHER", HasherSHA256),
		BcryptCost:     getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),

		TracingEnabled:    getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingSampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),

		ShutdownTimeout:     getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		ReadinessDrainDelay: getEnvDuration("READINESS_DRAIN_DELAY", 0),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	switch c.StoreBackend {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreMemory, StoreSQLite, c.StoreBackend)
	}
	switch c.PasswordHasher {
	case HasherSHA256:
	case HasherBcrypt:
		if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
		}
	default:
		return fmt.Errorf("PASSWORD_HASHER must be %q or %q, got %q", HasherSHA256, HasherBcrypt, c.PasswordHasher)
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be between 0 and 1, got %v", c.TracingSampleRate)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
