package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/cache"
	"github.com/GTDGit/gtd_storefront/internal/utils"
	"github.com/GTDGit/gtd_storefront/internal/variant"
)

// CartBackend is the storage the cart service writes to.
type CartBackend interface {
	AddItem(ctx context.Context, cartID, variantID string, qty int) (int, error)
	Items(ctx context.Context, cartID string) ([]cache.CartItem, error)
	TotalItems(ctx context.Context, cartID string) (int, error)
}

// CartService exposes carts to handlers and to product cards.
type CartService struct {
	store CartBackend
}

// NewCartService constructs a CartService.
func NewCartService(store CartBackend) *CartService {
	return &CartService{store: store}
}

// CartSummary is the cart payload returned to the storefront.
type CartSummary struct {
	CartID     string           `json:"cartId"`
	Items      []cache.CartItem `json:"items"`
	TotalItems int              `json:"totalItems"`
	Badge      string           `json:"badge"`
}

// Summary returns the cart's lines, total quantity and header badge text.
func (s *CartService) Summary(ctx context.Context, cartID string) (*CartSummary, error) {
	items, err := s.store.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	total, err := s.store.TotalItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return &CartSummary{
		CartID:     cartID,
		Items:      items,
		TotalItems: total,
		Badge:      utils.CartBadge(total),
	}, nil
}

// Bind returns a variant.Cart that adds to cartID within ctx.
func (s *CartService) Bind(ctx context.Context, cartID string) variant.Cart {
	return &boundCart{ctx: ctx, store: s.store, cartID: cartID}
}

// boundCart adapts CartBackend to the fire-and-forget variant.Cart contract:
// failures are logged, never returned to the card.
type boundCart struct {
	ctx    context.Context
	store  CartBackend
	cartID string
}

func (b *boundCart) AddItem(variantID string, quantity int) {
	if _, err := b.store.AddItem(b.ctx, b.cartID, variantID, quantity); err != nil {
		log.Error().Err(err).
			Str("cart_id", b.cartID).
			Str("variant_id", variantID).
			Msg("Failed to add item to cart")
	}
}
