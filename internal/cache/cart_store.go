package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"
)

type hashStore interface {
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HVals(ctx context.Context, key string) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// CartItem is one line of a cart: a variant (or product) id and its quantity.
type CartItem struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// CartStore keeps carts as Redis hashes of variantID -> quantity under
// cart:{cartID}. Every write extends the TTL.
type CartStore struct {
	redis hashStore
	ttl   time.Duration
}

// NewCartStore creates a new CartStore.
func NewCartStore(redis *RedisClient, ttl time.Duration) *CartStore {
	return newCartStore(redis, ttl)
}

func newCartStore(store hashStore, ttl time.Duration) *CartStore {
	return &CartStore{redis: store, ttl: ttl}
}

func (s *CartStore) key(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}

// AddItem adds qty units of variantID and returns the new line quantity.
func (s *CartStore) AddItem(ctx context.Context, cartID, variantID string, qty int) (int, error) {
	key := s.key(cartID)
	n, err := s.redis.HIncrBy(ctx, key, variantID, int64(qty))
	if err != nil {
		return 0, fmt.Errorf("failed to add cart item: %w", err)
	}
	if s.ttl > 0 {
		if err := s.redis.Expire(ctx, key, s.ttl); err != nil {
			return int(n), fmt.Errorf("failed to extend cart ttl: %w", err)
		}
	}
	return int(n), nil
}

// Items returns the cart lines sorted by variant id.
func (s *CartStore) Items(ctx context.Context, cartID string) ([]CartItem, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(cartID))
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	items := make([]CartItem, 0, len(fields))
	for id, raw := range fields {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty <= 0 {
			continue
		}
		items = append(items, CartItem{VariantID: id, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].VariantID < items[j].VariantID })
	return items, nil
}

// TotalItems sums the quantities of every line.
func (s *CartStore) TotalItems(ctx context.Context, cartID string) (int, error) {
	vals, err := s.redis.HVals(ctx, s.key(cartID))
	if err != nil {
		return 0, fmt.Errorf("failed to read cart totals: %w", err)
	}
	total := 0
	for _, raw := range vals {
		if qty, err := strconv.Atoi(raw); err == nil && qty > 0 {
			total += qty
		}
	}
	return total, nil
}
