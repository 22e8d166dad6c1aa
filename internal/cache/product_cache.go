package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

type kvStore interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// ProductCache keeps JSON snapshots of products keyed by slug so the card
// endpoints avoid a database round trip per request.
type ProductCache struct {
	redis kvStore
	ttl   time.Duration
}

// NewProductCache creates a new ProductCache.
func NewProductCache(redis *RedisClient, ttl time.Duration) *ProductCache {
	return newProductCache(redis, ttl)
}

func newProductCache(store kvStore, ttl time.Duration) *ProductCache {
	return &ProductCache{redis: store, ttl: ttl}
}

func (c *ProductCache) keyBySlug(slug string) string {
	return fmt.Sprintf("product:slug:%s", slug)
}

// Get returns the cached product for slug, or ErrMiss.
func (c *ProductCache) Get(ctx context.Context, slug string) (*models.Product, error) {
	raw, err := c.redis.Get(ctx, c.keyBySlug(slug))
	if err != nil {
		return nil, err
	}

	var p models.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product snapshot: %w", err)
	}
	return &p, nil
}

// Set stores a snapshot of p. A zero TTL disables caching.
func (c *ProductCache) Set(ctx context.Context, p *models.Product) error {
	if c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product snapshot: %w", err)
	}
	return c.redis.Set(ctx, c.keyBySlug(p.Slug), string(data), c.ttl)
}

// Invalidate drops the snapshots for the given slugs.
func (c *ProductCache) Invalidate(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		keys = append(keys, c.keyBySlug(s))
	}
	return c.redis.Delete(ctx, keys...)
}
