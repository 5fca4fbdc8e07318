package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	LogLevel     string

	// Document store. DataRoot backs the file store; a non-empty DBDSN
	// switches the deployment to Postgres instead.
	DataRoot string
	DBDSN    string

	// FeedDomain is the host part of exported event identifiers and the
	// host the self-import guard refuses to pull from.
	FeedDomain string

	// Outbound calendar pulls.
	FetchConnectTimeout time.Duration
	FetchTimeout        time.Duration
	FetchMaxRedirects   int

	// AdminKeyHash is the bcrypt hash the X-Admin-Key header is checked
	// against. Empty disables the admin endpoints entirely.
	AdminKeyHash string

	// Scheduled feed pulls.
	AutopilotEnabled  bool
	AutopilotSchedule string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Document store: Postgres when DB_DSN is set, files otherwise.
	cfg.DBDSN = os.Getenv("DB_DSN")
	cfg.DataRoot = getEnv("DATA_ROOT", "./data")
	if cfg.DBDSN == "" && cfg.DataRoot == "" {
		return nil, fmt.Errorf("either DB_DSN or DATA_ROOT is required")
	}

	cfg.FeedDomain = getEnv("FEED_DOMAIN", "localhost")

	cfg.FetchConnectTimeout, err = getEnvAsDuration("FETCH_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.FetchTimeout, err = getEnvAsDuration("FETCH_TIMEOUT", 25*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.FetchMaxRedirects, err = getEnvAsInt("FETCH_MAX_REDIRECTS", 3)
	if err != nil {
		return nil, err
	}

	cfg.AdminKeyHash = os.Getenv("ADMIN_KEY_HASH")

	cfg.AutopilotEnabled = getEnv("AUTOPILOT_ENABLED", "false") == "true"
	// Standard cron expression; the default pulls every 30 minutes.
	cfg.AutopilotSchedule = getEnv("AUTOPILOT_SCHEDULE", "*/30 * * * *")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration retrieves an environment variable as a time.Duration
// (e.g. "10s", "1m30s"), falling back to the default when unset.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}
