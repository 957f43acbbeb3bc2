package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/recoverpay/gateway/internal/models"
)

// Grant is the cached resolution of an admin bearer token: who the admin
// is and what they may do.
type Grant struct {
	Email       string              `json:"email"`
	Permissions []models.Permission `json:"permissions"`
}

// PermissionCache memoizes the grant behind an admin bearer token for a
// short window, saving a profile round-trip per admin request. Tokens are
// never stored; keys are their SHA-256 digest.
type PermissionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPermissionCache constructs a PermissionCache.
func NewPermissionCache(rdb *redis.Client, ttl time.Duration) *PermissionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PermissionCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached grant for a token, if present.
func (p *PermissionCache) Get(ctx context.Context, token string) (Grant, bool) {
	if p == nil || p.rdb == nil {
		return Grant{}, false
	}
	raw, errGet := p.rdb.Get(ctx, permKey(token)).Bytes()
	if errGet != nil {
		return Grant{}, false
	}
	var grant Grant
	if errUnmarshal := json.Unmarshal(raw, &grant); errUnmarshal != nil {
		return Grant{}, false
	}
	return grant, true
}

// Put caches the grant for a token.
func (p *PermissionCache) Put(ctx context.Context, token string, grant Grant) {
	if p == nil || p.rdb == nil {
		return
	}
	raw, errMarshal := json.Marshal(grant)
	if errMarshal != nil {
		return
	}
	if errSet := p.rdb.Set(ctx, permKey(token), raw, p.ttl).Err(); errSet != nil {
		log.WithError(errSet).Warn("cache: store permissions")
	}
}

// Invalidate drops the cached grant for a token.
func (p *PermissionCache) Invalidate(ctx context.Context, token string) {
	if p == nil || p.rdb == nil {
		return
	}
	_ = p.rdb.Del(ctx, permKey(token)).Err()
}

// permKey derives the cache key from a token digest.
func permKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "adminperm:" + hex.EncodeToString(sum[:])
}
