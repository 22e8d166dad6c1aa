package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/cache"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/utils"
	"github.com/GTDGit/gtd_storefront/internal/variant"
)

// Badge names rendered on a product card.
const (
	BadgeDiscount = "discount"
	BadgeFeatured = "featured"
	BadgeSoldOut  = "sold_out"
)

// ProductReader is the read side of the product repository.
type ProductReader interface {
	GetBySlug(slug string) (*models.Product, error)
	List(filter repository.ProductFilter) (*repository.ProductListResult, error)
}

// ProductSnapshotCache caches products by slug.
type ProductSnapshotCache interface {
	Get(ctx context.Context, slug string) (*models.Product, error)
	Set(ctx context.Context, p *models.Product) error
	Invalidate(ctx context.Context, slugs ...string) error
}

// ProductService builds storefront product cards.
type ProductService struct {
	productRepo ProductReader
	cache       ProductSnapshotCache
	carts       *CartService
	money       *utils.MoneyFormatter
}

// NewProductService constructs a ProductService. cache may be nil.
func NewProductService(productRepo ProductReader, cache ProductSnapshotCache, carts *CartService, money *utils.MoneyFormatter) *ProductService {
	return &ProductService{productRepo: productRepo, cache: cache, carts: carts, money: money}
}

// ProductCardView is everything a storefront needs to render one card.
type ProductCardView struct {
	ID                 string            `json:"id"`
	Slug               string            `json:"slug"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Image              string            `json:"image"`
	Badges             []string          `json:"badges"`
	Options            []OptionView      `json:"options"`
	Selected           variant.Selection `json:"selected"`
	State              variant.State     `json:"state"`
	MatchingVariantID  string            `json:"matchingVariantId,omitempty"`
	Currency           string            `json:"currency"`
	PriceMinor         int64             `json:"priceMinor"`
	Price              string            `json:"price"`
	CompareAtMinor     *int64            `json:"compareAtMinor,omitempty"`
	CompareAtPrice     string            `json:"compareAtPrice,omitempty"`
	DiscountPercentage *int              `json:"discountPercentage,omitempty"`
	InStock            bool              `json:"inStock"`
	CanAddToCart       bool              `json:"canAddToCart"`
}

// OptionView is one option with every declared value.
type OptionView struct {
	Name   string            `json:"name"`
	Values []OptionValueView `json:"values"`
}

// OptionValueView is one selectable value of an option.
type OptionValueView struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
	Swatch    string `json:"swatch,omitempty"`
}

// AvailabilityResult answers a single isOptionValueAvailable probe.
type AvailabilityResult struct {
	Option    string `json:"option"`
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

// AddToCartResult is returned after an add-to-cart attempt.
type AddToCartResult struct {
	Added bool             `json:"added"`
	Card  *ProductCardView `json:"card"`
	Cart  *CartSummary     `json:"cart"`
}

// ListCards returns a page of cards, each with an empty selection.
func (s *ProductService) ListCards(ctx context.Context, filter repository.ProductFilter) ([]ProductCardView, *repository.ProductListResult, error) {
	res, err := s.productRepo.List(filter)
	if err != nil {
		return nil, nil, err
	}
	cards := make([]ProductCardView, 0, len(res.Products))
	for i := range res.Products {
		card := variant.NewCard(&res.Products[i], variant.WithReporter(logAnomaly))
		cards = append(cards, s.view(card))
	}
	return cards, res, nil
}

// GetCard returns the card for slug derived for the given selection.
func (s *ProductService) GetCard(ctx context.Context, slug string, selected map[string]string) (*ProductCardView, error) {
	card, err := s.openCard(ctx, slug, selected)
	if err != nil {
		return nil, err
	}
	v := s.view(card)
	return &v, nil
}

// Availability reports whether value of option can still lead to a variant
// given the other selected options. An option or value the product does not
// declare is ErrInvalidOption, the same as an invalid selection.
func (s *ProductService) Availability(ctx context.Context, slug string, selected map[string]string, option, value string) (*AvailabilityResult, error) {
	card, err := s.openCard(ctx, slug, selected)
	if err != nil {
		return nil, err
	}
	opt, ok := card.Product().Option(option)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", utils.ErrInvalidOption, variant.ErrUnknownOption, option)
	}
	if !opt.HasValue(value) {
		return nil, fmt.Errorf("%w: %w: %q for option %q", utils.ErrInvalidOption, variant.ErrUnknownValue, value, option)
	}
	return &AvailabilityResult{
		Option:    option,
		Value:     value,
		Available: card.IsOptionValueAvailable(option, value),
	}, nil
}

// AddToCart applies selected to a fresh card for slug and, when the card
// allows it, adds one unit of the resolved variant to cartID.
func (s *ProductService) AddToCart(ctx context.Context, slug, cartID string, selected map[string]string) (*AddToCartResult, error) {
	if s.carts == nil {
		return nil, errors.New("cart service not configured")
	}
	card, err := s.openCard(ctx, slug, selected, variant.WithCart(s.carts.Bind(ctx, cartID)))
	if err != nil {
		return nil, err
	}

	added := card.HandleAddToCart()
	view := s.view(card)

	summary, err := s.carts.Summary(ctx, cartID)
	if err != nil {
		log.Error().Err(err).Str("cart_id", cartID).Msg("Failed to read cart summary")
		summary = &CartSummary{CartID: cartID, Items: []cache.CartItem{}}
	}
	return &AddToCartResult{Added: added, Card: &view, Cart: summary}, nil
}

// openCard loads the product and applies selected in name order. Any
// unknown option or value aborts with ErrInvalidOption.
func (s *ProductService) openCard(ctx context.Context, slug string, selected map[string]string, opts ...variant.CardOption) (*variant.Card, error) {
	p, err := s.loadProduct(ctx, slug)
	if err != nil {
		return nil, err
	}

	card := variant.NewCard(p, append([]variant.CardOption{variant.WithReporter(logAnomaly)}, opts...)...)
	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := card.SelectOption(name, selected[name]); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrInvalidOption, err)
		}
	}
	return card, nil
}

// loadProduct reads through the snapshot cache. Cache failures only cost a
// database read.
func (s *ProductService) loadProduct(ctx context.Context, slug string) (*models.Product, error) {
	if s.cache != nil {
		p, err := s.cache.Get(ctx, slug)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Str("slug", slug).Msg("Product cache read failed")
		}
	}

	p, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			log.Warn().Err(err).Str("slug", slug).Msg("Product cache write failed")
		}
	}
	return p, nil
}

// view renders the card's current derived state.
func (s *ProductService) view(card *variant.Card) ProductCardView {
	p := card.Product()
	d := card.Derived()
	selected := card.Selected()

	v := ProductCardView{
		ID:                 p.ID,
		Slug:               p.Slug,
		Title:              p.Title,
		Description:        utils.PlainText(p.Description),
		Image:              cardImage(p, d.MatchingVariant),
		Badges:             []string{},
		Options:            make([]OptionView, 0, len(p.Options)),
		Selected:           selected,
		State:              d.State,
		PriceMinor:         d.CurrentPrice,
		DiscountPercentage: d.DiscountPercentage,
		InStock:            d.InStock,
		CanAddToCart:       d.CanAddToCart,
	}
	if d.MatchingVariant != nil {
		v.MatchingVariantID = d.MatchingVariant.ID
	}

	if s.money != nil {
		v.Currency = s.money.Currency()
		v.Price = s.money.Format(d.CurrentPrice)
	}
	if d.CurrentCompareAt != nil && *d.CurrentCompareAt > d.CurrentPrice {
		v.CompareAtMinor = d.CurrentCompareAt
		if s.money != nil {
			v.CompareAtPrice = s.money.Format(*d.CurrentCompareAt)
		}
	}

	if d.DiscountPercentage != nil && *d.DiscountPercentage > 0 {
		v.Badges = append(v.Badges, BadgeDiscount)
	}
	if p.Featured {
		v.Badges = append(v.Badges, BadgeFeatured)
	}
	if !d.InStock {
		v.Badges = append(v.Badges, BadgeSoldOut)
	}

	for _, opt := range p.Options {
		ov := OptionView{Name: opt.Name, Values: make([]OptionValueView, 0, len(opt.Values))}
		swatches := strings.EqualFold(opt.Name, "color")
		for _, value := range opt.Values {
			vv := OptionValueView{
				Value:     value,
				Available: card.IsOptionValueAvailable(opt.Name, value),
				Selected:  selected[opt.Name] == value,
			}
			if swatches {
				vv.Swatch = opt.Swatches[value]
			}
			ov.Values = append(ov.Values, vv)
		}
		v.Options = append(v.Options, ov)
	}
	return v
}

// cardImage prefers the matched variant's image, then the first product image.
func cardImage(p *models.Product, match *models.Variant) string {
	if match != nil && match.Image != "" {
		return match.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

func logAnomaly(a variant.Anomaly) {
	log.Warn().
		Str("product_id", a.ProductID).
		Str("variant_id", a.VariantID).
		Str("kind", string(a.Kind)).
		Msg(a.String())
}
