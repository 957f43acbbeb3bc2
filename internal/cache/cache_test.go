package cache

import (
	"context"
	"testing"
	"time"

	"github.com/recoverpay/gateway/internal/config"
	"github.com/recoverpay/gateway/internal/models"
)

func TestCooldownWithoutRedisAlwaysAllows(t *testing.T) {
	cooldown := NewCooldown(nil, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, remaining := cooldown.Try(context.Background(), "otp:9876543210")
		if !allowed {
			t.Fatalf("attempt %d: expected allow without redis", i)
		}
		if remaining != 0 {
			t.Fatalf("attempt %d: expected zero remaining, got %v", i, remaining)
		}
	}
}

func TestNilCooldownAllows(t *testing.T) {
	var cooldown *Cooldown
	if allowed, _ := cooldown.Try(context.Background(), "k"); !allowed {
		t.Fatal("nil cooldown must allow")
	}
}

func TestPermissionCacheWithoutRedisMisses(t *testing.T) {
	permCache := NewPermissionCache(nil, time.Minute)

	permCache.Put(context.Background(), "bearer", Grant{Email: "ops@example.com", Permissions: []models.Permission{{Module: "User", Actions: []string{"read"}}}})
	if _, okCached := permCache.Get(context.Background(), "bearer"); okCached {
		t.Fatal("cache without redis must always miss")
	}
	permCache.Invalidate(context.Background(), "bearer")
}

func TestNewRedisClientWithoutAddr(t *testing.T) {
	if client := NewRedisClient(config.RedisConfig{}); client != nil {
		t.Fatal("expected nil client when no address is configured")
	}
}

func TestPermKeyHidesToken(t *testing.T) {
	key := permKey("secret-bearer")
	if key == "adminperm:secret-bearer" {
		t.Fatal("token must not appear verbatim in the cache key")
	}
	if key != permKey("secret-bearer") {
		t.Fatal("key derivation must be deterministic")
	}
	if key == permKey("other-bearer") {
		t.Fatal("distinct tokens must map to distinct keys")
	}
}
