package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "PG_DSN", "LEDGER_BACKEND", "MIGRATIONS_DIR", "HTTP_ADDR",
		"AUTH_JWT_SECRET", "JWT_SECRET", "TIMEZONE", "WORKDAY_START_HOUR",
		"CURRENCY_SUFFIX", "PROPERTY_NAME", "LOG_LEVEL", "HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT", "HOTEL_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("PG_DSN", "postgres://localhost/hotel")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/hotel" {
		t.Fatalf("expected PG_DSN fallback, got %q", cfg.DatabaseURL)
	}
	if cfg.LedgerBackend != BackendPostgres || cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.WorkdayStartHour != 8 || cfg.CurrencySuffix != "FG" {
		t.Fatalf("unexpected reporting defaults: %+v", cfg)
	}
	if cfg.ReadTimeout != 10*time.Second || cfg.WriteTimeout != 30*time.Second {
		t.Fatalf("unexpected timeouts: %v %v", cfg.ReadTimeout, cfg.WriteTimeout)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC location")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("WORKDAY_START_HOUR", "6")

	path := filepath.Join(t.TempDir(), "hotel.yaml")
	content := strings.Join([]string{
		"ledger_backend: memory",
		"property_name: Residence Kaloum",
		"workday_start_hour: 9",
		"http_write_timeout: 45s",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HOTEL_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LedgerBackend != BackendMemory || cfg.PropertyName != "Residence Kaloum" {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.WorkdayStartHour != 9 {
		t.Fatalf("expected yaml to override env hour, got %d", cfg.WorkdayStartHour)
	}
	if cfg.WriteTimeout != 45*time.Second {
		t.Fatalf("expected 45s write timeout, got %v", cfg.WriteTimeout)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		LedgerBackend:    BackendMemory,
		JWTSecret:        "secret",
		Timezone:         "UTC",
		WorkdayStartHour: 8,
		ReadTimeout:      time.Second,
		WriteTimeout:     time.Second,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]func(c *Config){
		"hour":     func(c *Config) { c.WorkdayStartHour = 24 },
		"timezone": func(c *Config) { c.Timezone = "Mars/Olympus" },
		"secret":   func(c *Config) { c.JWTSecret = "" },
		"backend":  func(c *Config) { c.LedgerBackend = "sqlite" },
		"dsn":      func(c *Config) { c.LedgerBackend = BackendPostgres },
		"timeout":  func(c *Config) { c.ReadTimeout = 0 },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
