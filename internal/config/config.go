// Package config loads server configuration with viper.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// YAML file, a .env file in the working directory, and WARIKAN_* environment
// variables (WARIKAN_SERVER_PORT overrides server.port, and so on). log.level
// also honours the unprefixed LOG_LEVEL when WARIKAN_LOG_LEVEL is unset.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WARIKAN"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Currency CurrencyConfig
	Log      LogConfig
	Random   RandomConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds session storage configuration
type DatabaseConfig struct {
	// Path is a SQLite file path, or ":memory:" to keep sessions in memory.
	Path string

	// CleanupInterval is how often sessions with expired tokens are removed.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// CurrencyConfig holds display configuration for amounts
type CurrencyConfig struct {
	Unit string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// RandomConfig holds random split configuration
type RandomConfig struct {
	// Seed makes random splits reproducible. Zero seeds from the runtime.
	Seed uint64
}

// Load reads configuration. configPath may be empty, in which case only
// defaults, .env and the environment are used.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind log level: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Info("Configuration file loaded", "path", configPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", ":memory:")
	v.SetDefault("database.cleanup_interval", 10*time.Minute)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("currency.unit", "円")
	v.SetDefault("log.level", "info")
	v.SetDefault("random.seed", 0)
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.CleanupInterval <= 0 {
		return fmt.Errorf("database.cleanup_interval must be positive, got %s", c.Database.CleanupInterval)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}
