package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	redisclient "github.com/angelmondragon/deliverydash-backend/pkg/redis"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CatalogKey(parts ...string) string
}

// productCache keeps short-lived copies of catalog reads. Cache errors are
// logged and treated as misses so the database stays authoritative.
type productCache struct {
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

func newProductCache(store cacheStore, ttl time.Duration, logg *logger.Logger) *productCache {
	if store == nil || ttl <= 0 {
		return nil
	}
	return &productCache{store: store, ttl: ttl, logg: logg}
}

func (c *productCache) listKey() string {
	return c.store.CatalogKey("products")
}

func (c *productCache) productKey(id uuid.UUID) string {
	return c.store.CatalogKey("product", id.String())
}

func (c *productCache) getList(ctx context.Context) ([]types.Product, bool) {
	if c == nil {
		return nil, false
	}
	var products []types.Product
	if !c.get(ctx, c.listKey(), &products) {
		return nil, false
	}
	return products, true
}

func (c *productCache) getProduct(ctx context.Context, id uuid.UUID) (*types.Product, bool) {
	if c == nil {
		return nil, false
	}
	var product types.Product
	if !c.get(ctx, c.productKey(id), &product) {
		return nil, false
	}
	return &product, true
}

func (c *productCache) putList(ctx context.Context, products []types.Product) {
	if c == nil {
		return
	}
	c.put(ctx, c.listKey(), products)
}

func (c *productCache) putProduct(ctx context.Context, product types.Product) {
	if c == nil {
		return
	}
	c.put(ctx, c.productKey(product.ID), product)
}

func (c *productCache) invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil {
		return
	}
	keys := []string{c.listKey()}
	if id != uuid.Nil {
		keys = append(keys, c.productKey(id))
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		c.logg.Error(ctx, "failed to invalidate catalog cache", err)
	}
}

func (c *productCache) get(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redisclient.Nil) {
			c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "catalog cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "catalog cache entry is corrupt")
		return false
	}
	return true
}

func (c *productCache) put(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "catalog cache write failed")
	}
}
