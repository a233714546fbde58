// Package config loads service configuration with Viper.
//
// Values come from defaults, then an optional YAML file, then environment
// variables prefixed PROVENANCE_ (dots become underscores, so
// PROVENANCE_WORKER_INTERVAL sets worker.interval), then bound CLI flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PROVENANCE"

// DefaultJWTSecret is the signing secret used when none is configured. It is
// public, so serving with it lets anyone mint tokens.
const DefaultJWTSecret = "development-insecure-secret-change-me"

// Config represents the complete service configuration.
type Config struct {
	Port     int            `mapstructure:"port"`
	Seed     bool           `mapstructure:"seed"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// WorkerConfig controls the feed polling scheduler.
type WorkerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// CacheConfig controls the article listing cache.
type CacheConfig struct {
	ArticlesTTL time.Duration `mapstructure:"articles_ttl"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

// NewViper returns a Viper instance with defaults and environment bindings
// applied. Callers may bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("port", 8881)
	v.SetDefault("seed", true)
	v.SetDefault("database.path", "provenance.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("worker.interval", 300*time.Millisecond)
	v.SetDefault("worker.timeout", 10*time.Second)
	v.SetDefault("cache.articles_ttl", 5*time.Second)
	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.issuer", "provenance-api")
	v.SetDefault("auth.audience", "provenance-clients")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most hosting platforms set.
	_ = v.BindEnv("port", envPrefix+"_PORT", "PORT")

	return v
}

// Load reads the optional config file at path into v and decodes the result.
// A nil v is replaced by NewViper().
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Worker.Interval <= 0 {
		errs = append(errs, fmt.Errorf("worker.interval must be positive, got %s", c.Worker.Interval))
	}
	if c.Worker.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("worker.timeout must be positive, got %s", c.Worker.Timeout))
	}
	if c.Cache.ArticlesTTL < 0 {
		errs = append(errs, fmt.Errorf("cache.articles_ttl must not be negative, got %s", c.Cache.ArticlesTTL))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	return errors.Join(errs...)
}

// UsesDefaultJWTSecret reports whether tokens are signed with DefaultJWTSecret.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.Auth.JWTSecret == DefaultJWTSecret
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
