package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "")
	if _, errLoad := Load(""); errLoad == nil {
		t.Fatal("expected error without an upstream base URL")
	}
}

func TestLoadDefaultsWithEnvBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/")

	cfg, errLoad := Load("")
	if errLoad != nil {
		t.Fatalf("Load: %v", errLoad)
	}
	if cfg.Upstream.BaseURL != "https://api.example.com" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.Upstream.BaseURL)
	}
	if cfg.Server.Addr != ":3000" {
		t.Fatalf("unexpected default addr %q", cfg.Server.Addr)
	}
	if cfg.Session.TTL != 30*24*time.Hour {
		t.Fatalf("unexpected default session ttl %v", cfg.Session.TTL)
	}
	if cfg.Database.DSN != "gateway.db" {
		t.Fatalf("unexpected default dsn %q", cfg.Database.DSN)
	}
}

func TestLoadEnvAliasAndOverrides(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "https://api.example.com")
	t.Setenv("PORT", "4000")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, errLoad := Load("")
	if errLoad != nil {
		t.Fatalf("Load: %v", errLoad)
	}
	if cfg.Upstream.BaseURL != "https://api.example.com" {
		t.Fatalf("alias env not honored, got %q", cfg.Upstream.BaseURL)
	}
	if cfg.Server.Addr != ":4000" {
		t.Fatalf("PORT not honored, got %q", cfg.Server.Addr)
	}
	if !cfg.Server.SecureCookies {
		t.Fatal("SECURE_COOKIES not honored")
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Fatalf("redis host/port not combined, got %q", cfg.Redis.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("LOG_LEVEL not honored, got %q", cfg.Log.Level)
	}
}

func TestLoadYAMLFileWithEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`server:
  addr: ":8080"
upstream:
  base-url: "https://file.example.com"
log:
  level: warn
`)
	if errWrite := os.WriteFile(path, raw, 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	t.Setenv("API_BASE_URL", "https://env.example.com")

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("Load: %v", errLoad)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("file value not applied, got %q", cfg.Server.Addr)
	}
	if cfg.Upstream.BaseURL != "https://env.example.com" {
		t.Fatalf("env should override the file, got %q", cfg.Upstream.BaseURL)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("unexpected log level %q", cfg.Log.Level)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")

	if _, errLoad := Load(filepath.Join(t.TempDir(), "absent.yaml")); errLoad != nil {
		t.Fatalf("missing file should not fail: %v", errLoad)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if errWrite := os.WriteFile(path, []byte("server: [unclosed"), 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}

	if _, errLoad := Load(path); errLoad == nil {
		t.Fatal("expected parse error")
	}
}
