package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"dilse/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern. It tries to fill dest from the
// cached JSON at key; on a miss it calls load, which must populate dest, and
// then writes dest back with the given TTL. When Redis is unavailable the
// loader runs directly, so callers never fail because of the cache.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Bytes()
		if err == nil {
			if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
				return nil
			}
			// Corrupt entry, drop it and fall through to the loader.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			logCacheError("get", key, err)
		}
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			if setErr := client.Set(ctx, key, raw, ttl).Err(); setErr != nil {
				logCacheError("set", key, setErr)
			}
		}
	}
	return nil
}

func logCacheError(op, key string, err error) {
	middleware.Logger.Warn("cache operation failed",
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
