package cache

import (
	"context"
	"time"
)

// Cache is a read-through store for catalog data. Cart and order state is
// never cached.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	ProductKeyPrefix = "product"
	CatalogKeyPrefix = "catalog"
)

// CatalogListKey holds the full product listing.
var CatalogListKey = Key(CatalogKeyPrefix, "all")
