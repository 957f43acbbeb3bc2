// Package cache holds the Redis-backed helpers of the gateway: the OTP
// resend cooldown and the admin permission cache. Redis is optional; every
// helper degrades to a no-op when the client is nil so a missing Redis only
// costs the enforcement, never availability.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/recoverpay/gateway/internal/config"
)

// NewRedisClient connects to Redis from configuration. It returns nil when
// no address is configured or the instance is unreachable.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if errPing := client.Ping(pingCtx).Err(); errPing != nil {
		log.WithError(errPing).Warn("cache: redis unreachable, cooldown and permission cache disabled")
		_ = client.Close()
		return nil
	}
	return client
}

// Cooldown enforces a minimum interval between repeats of an action,
// keyed by an arbitrary string.
type Cooldown struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCooldown constructs a Cooldown with the given interval.
func NewCooldown(rdb *redis.Client, ttl time.Duration) *Cooldown {
	return &Cooldown{rdb: rdb, ttl: ttl}
}

// Try attempts to start the cooldown for key. It returns true when the
// action may proceed; otherwise the remaining wait is returned. Without
// Redis, or on a Redis error, the action is always allowed.
func (c *Cooldown) Try(ctx context.Context, key string) (bool, time.Duration) {
	if c == nil || c.rdb == nil {
		return true, 0
	}
	fullKey := "cooldown:" + key
	acquired, errSet := c.rdb.SetNX(ctx, fullKey, 1, c.ttl).Result()
	if errSet != nil {
		log.WithError(errSet).Warn("cache: cooldown check")
		return true, 0
	}
	if acquired {
		return true, 0
	}
	remaining, errTTL := c.rdb.TTL(ctx, fullKey).Result()
	if errTTL != nil || remaining < 0 {
		remaining = c.ttl
	}
	return false, remaining
}
