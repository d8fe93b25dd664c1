package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/tripsplit/pkg/logging"
)

type Config struct {
	// HTTP Server
	Port               string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Storage
	DBPath     string
	ReportsDir string

	// Logging
	LogLevel string

	// problems found while reading the environment, reported by Validate
	loadErrors []string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		DBPath:     getEnv("DB_PATH", "./data/tripsplit.db"),
		ReportsDir: getEnv("REPORTS_DIR", "."),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	timeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		cfg.loadErrors = append(cfg.loadErrors, err.Error())
	}
	cfg.ShutdownTimeout = timeout

	return cfg
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	errors := append([]string(nil), c.loadErrors...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if !logging.IsLevel(c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, logging.LevelNames))
	}

	if c.ShutdownTimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must not be negative", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s '%s': must be a duration such as 10s", key, value)
	}
	return d, nil
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
