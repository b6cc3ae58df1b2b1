package cache

import (
	"context"
	"log/slog"
	"time"
)

// GetOrLoad returns the cached value for key, or calls load and stores its
// result. Cache failures are logged and fall through to load.
func GetOrLoad[T any](ctx context.Context, c Cache, logger *slog.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T

	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Cache read failed", slog.String("key", key), slog.Any("error", err))
	} else if found {
		logger.Debug("Cache hit", slog.String("key", key))
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("Cache write failed", slog.String("key", key), slog.Any("error", err))
	}

	return value, nil
}
