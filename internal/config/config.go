// Package config loads stockwatch configuration from a YAML file, the
// environment and a local .env file. Environment variables use the
// STOCKWATCH_ prefix with dots replaced by underscores
// (STOCKWATCH_HTTP_ADDR, STOCKWATCH_ALERTS_DEFAULT_THRESHOLD, ...).
// DATABASE_URL is honored when STOCKWATCH_DATABASE_URL is unset.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for stockwatch.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `mapstructure:"database_url"`

	// Store selects the backend: "postgres" or "memory".
	Store string `mapstructure:"store" validate:"oneof=postgres memory"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`

	// LogPretty switches to the human-readable console writer.
	LogPretty bool `mapstructure:"log_pretty"`

	HTTP   HTTPConfig   `mapstructure:"http"`
	Alerts AlertsConfig `mapstructure:"alerts"`
}

// HTTPConfig holds server settings for the serve command.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	// AllowedOrigins is a comma-separated CORS allow list; empty disables CORS.
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// AlertsConfig holds the low-stock fallbacks.
type AlertsConfig struct {
	// DefaultThreshold applies to products without their own low_stock_threshold.
	DefaultThreshold int `mapstructure:"default_threshold" validate:"gte=0"`
	// DefaultRecentDays is the sales lookback used when recent_days is omitted.
	DefaultRecentDays int `mapstructure:"default_recent_days" validate:"gte=0"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store:     "postgres",
		LogLevel:  "info",
		LogPretty: false,
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Alerts: AlertsConfig{
			DefaultThreshold:  20,
			DefaultRecentDays: 30,
		},
	}
}

// Load reads configuration. Sources, lowest precedence first:
// defaults, config file, .env, environment.
// Config file locations:
// 1. Path specified by configFile parameter
// 2. ./stockwatch.yaml
// 3. ~/.config/stockwatch/stockwatch.yaml
func Load(configFile string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("stockwatch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "stockwatch"))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	v.SetEnvPrefix("stockwatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can resolve it on Unmarshal.
func bindDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("store", d.Store)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_pretty", d.LogPretty)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.read_timeout", d.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", d.HTTP.WriteTimeout)
	v.SetDefault("http.shutdown_timeout", d.HTTP.ShutdownTimeout)
	v.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	v.SetDefault("http.allowed_origins", d.HTTP.AllowedOrigins)
	v.SetDefault("alerts.default_threshold", d.Alerts.DefaultThreshold)
	v.SetDefault("alerts.default_recent_days", d.Alerts.DefaultRecentDays)
}

var validate = validator.New()

// Validate checks field constraints and that a postgres store has a connection string.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Store == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required for the postgres store")
	}
	return nil
}
