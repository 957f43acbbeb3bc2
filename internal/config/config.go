package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the local HTTP listener settings.
type ServerConfig struct {
	Addr          string `yaml:"addr"`           // Listen address, e.g. ":3000".
	SecureCookies bool   `yaml:"secure-cookies"` // Set the Secure attribute on session cookies.
	StaticDir     string `yaml:"static-dir"`     // Optional directory served for non-API paths.
}

// UpstreamConfig locates the upstream loan-repayment API.
type UpstreamConfig struct {
	BaseURL string        `yaml:"base-url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig controls the session cookie contract.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// RedisConfig locates the optional Redis instance used for the OTP
// resend cooldown and the admin permission cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DatabaseConfig locates the local audit store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LogConfig controls logging output and rotation.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
}

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Session  SessionConfig  `yaml:"session"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":3000"},
		Upstream: UpstreamConfig{Timeout: 15 * time.Second},
		Session:  SessionConfig{TTL: 30 * 24 * time.Hour},
		Database: DatabaseConfig{DSN: "gateway.db"},
		Log:      LogConfig{Level: "info", MaxSizeMB: 50, MaxBackups: 5},
	}
}

// Load reads the YAML config file at path, applies environment overrides and
// validates the result. A missing file is not an error; the defaults plus
// environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, errRead := os.ReadFile(path)
		switch {
		case errRead == nil:
			if errUnmarshal := yaml.Unmarshal(raw, &cfg); errUnmarshal != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
			}
		case os.IsNotExist(errRead):
			// Fall through to env-only configuration.
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
		}
	}

	applyEnv(&cfg)

	if strings.TrimSpace(cfg.Upstream.BaseURL) == "" {
		return Config{}, fmt.Errorf("config: upstream base URL is required (set upstream.base-url or API_BASE_URL)")
	}
	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")
	if cfg.Upstream.Timeout <= 0 {
		cfg.Upstream.Timeout = 15 * time.Second
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 30 * 24 * time.Hour
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := firstEnv("API_BASE_URL", "NEXT_PUBLIC_API_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		cfg.Server.SecureCookies = parseBool(v)
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	} else if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		cfg.Redis.Addr = host + ":" + port
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, errAtoi := strconv.Atoi(v); errAtoi == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// parseBool accepts the usual truthy spellings.
func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
