// Package recipecache resolves a product's recipe through a fast key-value
// store with a transparent fallback to the authoritative recipe rows. Cache
// entries are disposable copies; staleness is acceptable because per-unit
// quantities are immutable once created.
package recipecache

import (
	"context"
	"encoding/json"
	"fmt"

	"siparis-backend/internal/metrics"

	"go.uber.org/zap"
)

// Entry is one cached recipe line. The JSON field names are part of the cache
// value format.
type Entry struct {
	IngredientID uint  `json:"id"`
	Quantity     int64 `json:"quantity"` // per ordered unit
}

// Store is the fast key-value store. A failed Get must surface as an error so
// the cache can fall back; it never reaches callers of the cache.
type Store interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// Source is the authoritative recipe store.
type Source interface {
	Entries(ctx context.Context, productID uint) ([]Entry, error)
}

type Cache struct {
	store  Store
	source Source
	log    *zap.Logger
}

func New(store Store, source Source, log *zap.Logger) *Cache {
	return &Cache{store: store, source: source, log: log}
}

// Key returns the cache key for a product's recipe.
func Key(productID uint) string {
	return fmt.Sprintf("product_%d_ingredients", productID)
}

// Entries returns the recipe for productID. Any cache-store problem (miss,
// unparsable value, unreachable store) silently falls back to the
// authoritative source; the read path never writes back, so a sustained cache
// outage means repeated recomputation rather than failing callers.
func (c *Cache) Entries(ctx context.Context, productID uint) ([]Entry, error) {
	key := Key(productID)

	raw, found, err := c.store.Get(key)
	if err != nil {
		c.log.Warn("recipe cache store unreachable, falling back",
			zap.Uint("product_id", productID), zap.Error(err))
		metrics.RecipeCacheFallbacks.Inc()
		return c.source.Entries(ctx, productID)
	}
	if found {
		var entries []Entry
		if err := json.Unmarshal([]byte(raw), &entries); err == nil {
			return entries, nil
		}
		c.log.Warn("recipe cache value unparsable, falling back",
			zap.Uint("product_id", productID), zap.String("key", key))
	}

	metrics.RecipeCacheFallbacks.Inc()
	return c.source.Entries(ctx, productID)
}

// Populate recomputes the recipe from the authoritative source and writes it
// through to the fast store. A failed write is logged and swallowed; the
// authoritative read error is the only failure surfaced.
func (c *Cache) Populate(ctx context.Context, productID uint) error {
	entries, err := c.source.Entries(ctx, productID)
	if err != nil {
		return fmt.Errorf("populate recipe cache for product %d: %w", productID, err)
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode recipe cache entry for product %d: %w", productID, err)
	}

	if err := c.store.Set(Key(productID), string(payload)); err != nil {
		c.log.Error("failed to write recipe cache",
			zap.Uint("product_id", productID), zap.Error(err))
	}
	return nil
}
