package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultHomeNation is the administering nation's country code.
const DefaultHomeNation = "KAN"

// Config captures the screening engine's runtime configuration. Source paths
// are not configured here; they are per-invocation arguments.
type Config struct {
	// HomeNation is the country code of returning citizens.
	HomeNation string `env:"KANADIA_HOME_NATION" envDefault:"KAN"`
	// VisaMaxAgeDays is the age in calendar days at which a visa stops being valid.
	VisaMaxAgeDays int `env:"KANADIA_VISA_MAX_AGE_DAYS" envDefault:"730"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"KANADIA_LOG_LEVEL" envDefault:"info"`
	// AuditBuffer > 0 enables async audit delivery with that buffer size.
	AuditBuffer int `env:"KANADIA_AUDIT_BUFFER" envDefault:"0"`
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HomeNation) == "" {
		return fmt.Errorf("KANADIA_HOME_NATION must not be empty")
	}
	if c.VisaMaxAgeDays <= 0 {
		return fmt.Errorf("KANADIA_VISA_MAX_AGE_DAYS must be positive, got %d", c.VisaMaxAgeDays)
	}
	if c.AuditBuffer < 0 {
		return fmt.Errorf("KANADIA_AUDIT_BUFFER must not be negative, got %d", c.AuditBuffer)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured slog level. Validate must have passed.
func (c Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// ParseLevel maps a textual log level onto slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}
