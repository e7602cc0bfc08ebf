package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Ledger backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds the service configuration.
type Config struct {
	DatabaseURL      string        `yaml:"database_url"`
	LedgerBackend    string        `yaml:"ledger_backend"`
	MigrationsDir    string        `yaml:"migrations_dir"`
	HTTPAddr         string        `yaml:"http_addr"`
	JWTSecret        string        `yaml:"jwt_secret"`
	Timezone         string        `yaml:"timezone"`
	WorkdayStartHour int           `yaml:"workday_start_hour"`
	CurrencySuffix   string        `yaml:"currency_suffix"`
	PropertyName     string        `yaml:"property_name"`
	LogLevel         string        `yaml:"log_level"`
	ReadTimeout      time.Duration `yaml:"http_read_timeout"`
	WriteTimeout     time.Duration `yaml:"http_write_timeout"`
}

// Load reads the environment, then overlays the YAML file named by HOTEL_CONFIG.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:      getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		LedgerBackend:    strings.ToLower(getenvDefault("LEDGER_BACKEND", BackendPostgres)),
		MigrationsDir:    getenvDefault("MIGRATIONS_DIR", "migrations"),
		HTTPAddr:         getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:        getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		Timezone:         getenvDefault("TIMEZONE", "UTC"),
		WorkdayStartHour: getenvIntDefault("WORKDAY_START_HOUR", 8),
		CurrencySuffix:   getenvDefault("CURRENCY_SUFFIX", "FG"),
		PropertyName:     getenvDefault("PROPERTY_NAME", "Hotel"),
		LogLevel:         strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		ReadTimeout:      getenvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:     getenvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
	}

	if path := os.Getenv("HOTEL_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if c.WorkdayStartHour < 0 || c.WorkdayStartHour > 23 {
		return fmt.Errorf("config: workday start hour %d out of range", c.WorkdayStartHour)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	if c.JWTSecret == "" {
		return errors.New("config: AUTH_JWT_SECRET is required")
	}
	switch c.LedgerBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL or PG_DSN is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown ledger backend %q", c.LedgerBackend)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return errors.New("config: http timeouts must be positive")
	}
	return nil
}

// Location resolves the configured timezone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
