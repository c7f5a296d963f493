package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned when a short code has no cached destination.
var ErrMiss = errors.New("cache miss")

// RedirectCache keeps short-code to destination-URL mappings in Redis so the
// hot redirect path can skip the database. Entries carry a TTL; deletions and
// updates invalidate explicitly.
type RedirectCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewRedirectCache(addr, password string, db int, ttl time.Duration, log *zap.Logger) (*RedirectCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info("redirect cache connected", zap.String("addr", addr))
	return &RedirectCache{rdb: rdb, ttl: ttl, log: log}, nil
}

func (c *RedirectCache) key(code string) string {
	return "redirect:" + code
}

func (c *RedirectCache) Get(ctx context.Context, code string) (string, error) {
	dest, err := c.rdb.Get(ctx, c.key(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return dest, nil
}

// Set stores a redirect entry. maxLifetime bounds how long the entry may
// live beyond the configured TTL; temporary links pass their time to expiry
// so a cached redirect never outlives the link. A non-positive maxLifetime
// applies the configured TTL unchanged.
func (c *RedirectCache) Set(ctx context.Context, code, destination string, maxLifetime time.Duration) error {
	return c.rdb.Set(ctx, c.key(code), destination, clampTTL(c.ttl, maxLifetime)).Err()
}

// clampTTL bounds the configured entry TTL by a per-entry lifetime limit.
func clampTTL(ttl, maxLifetime time.Duration) time.Duration {
	if maxLifetime > 0 && maxLifetime < ttl {
		return maxLifetime
	}
	return ttl
}

func (c *RedirectCache) Invalidate(ctx context.Context, code string) error {
	return c.rdb.Del(ctx, c.key(code)).Err()
}

func (c *RedirectCache) Close() error {
	return c.rdb.Close()
}
