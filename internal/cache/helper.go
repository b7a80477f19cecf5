package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"schoolhub/internal/observability"

	"github.com/redis/go-redis/v9"
)

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on miss it calls fetch, which populates dest and
// reports whether anything was found. Only found values are stored, so an
// absent row never occupies a key. Cache errors fall through to the fetch so
// a broken cache never breaks a read.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() (bool, error)) (bool, error) {
	prefix, _, _ := strings.Cut(key, ":")
	cached, err := GetJSON(ctx, key, dest)
	if err == nil && cached {
		observability.CacheHits.WithLabelValues(prefix, "hit").Inc()
		return true, nil
	}
	observability.CacheHits.WithLabelValues(prefix, "miss").Inc()

	found, err := fetch()
	if err != nil {
		return false, err
	}
	if found {
		// Store into cache (best-effort)
		_ = SetJSON(ctx, key, dest, ttl)
	}
	return found, nil
}
