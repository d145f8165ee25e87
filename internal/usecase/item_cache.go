package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/assetsync/internal/domain"
)

// CachedItemCatalog serves item lookups from a cache and falls back to the
// wrapped catalog. Cache failures only cost a lookup.
type CachedItemCatalog struct {
	next   ItemCatalog
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedItemCatalog wraps next with cache.
func NewCachedItemCatalog(next ItemCatalog, cache Cache, ttl time.Duration, logger zerolog.Logger) *CachedItemCatalog {
	return &CachedItemCatalog{next: next, cache: cache, ttl: ttl, logger: logger}
}

// GetItem returns the cached item or loads and caches it.
func (c *CachedItemCatalog) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	key := "item:" + id

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var item domain.Item
		if err := json.Unmarshal(data, &item); err == nil {
			return &item, nil
		}
		c.logger.Warn().Str("item_id", id).Msg("discarding undecodable cached item")
	case !errors.Is(err, ErrCacheMiss):
		c.logger.Warn().Err(err).Str("item_id", id).Msg("item cache read failed")
	}

	item, err := c.next.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(item); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("item_id", id).Msg("item cache write failed")
		}
	}

	return item, nil
}
