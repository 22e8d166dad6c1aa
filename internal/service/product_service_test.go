package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_storefront/internal/cache"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/utils"
	"github.com/GTDGit/gtd_storefront/internal/variant"
)

type productFixture struct {
	svc   *ProductService
	repo  *fakeProductRepo
	cache *fakeSnapshotCache
	carts *fakeCartBackend
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	money, err := utils.NewMoneyFormatter("USD", "en-US")
	require.NoError(t, err)

	f := &productFixture{
		repo:  newFakeProductRepo(terrarium(), substrate()),
		cache: newFakeSnapshotCache(),
		carts: newFakeCartBackend(),
	}
	f.svc = NewProductService(f.repo, f.cache, NewCartService(f.carts), money)
	return f
}

func optionValue(t *testing.T, v *ProductCardView, option, value string) OptionValueView {
	t.Helper()
	for _, o := range v.Options {
		if o.Name != option {
			continue
		}
		for _, ov := range o.Values {
			if ov.Value == value {
				return ov
			}
		}
	}
	t.Fatalf("option %s=%s not in view", option, value)
	return OptionValueView{}
}

func TestGetCard_NoSelection(t *testing.T) {
	f := newProductFixture(t)

	v, err := f.svc.GetCard(context.Background(), "terrario-vidrio", nil)
	require.NoError(t, err)

	assert.Equal(t, variant.StateUnselected, v.State)
	assert.Equal(t, "Terrario frontal & ventilado", v.Description)
	assert.Equal(t, "https://cdn.example/terrario.jpg", v.Image)
	assert.Equal(t, "$1,500.00", v.Price)
	assert.Empty(t, v.CompareAtPrice)
	assert.Nil(t, v.DiscountPercentage)
	assert.True(t, v.InStock)
	assert.False(t, v.CanAddToCart)
	assert.Empty(t, v.MatchingVariantID)
	assert.Equal(t, []string{BadgeFeatured}, v.Badges)

	negro := optionValue(t, v, "Color", "Negro")
	assert.True(t, negro.Available)
	assert.False(t, negro.Selected)
	assert.Equal(t, "#000000", negro.Swatch)
	assert.Empty(t, optionValue(t, v, "Size", "S").Swatch)
}

func TestGetCard_MatchedWithDiscount(t *testing.T) {
	f := newProductFixture(t)

	v, err := f.svc.GetCard(context.Background(), "terrario-vidrio", map[string]string{"Color": "Negro", "Size": "S"})
	require.NoError(t, err)

	assert.Equal(t, variant.StateMatched, v.State)
	assert.Equal(t, "v-negro-s", v.MatchingVariantID)
	assert.Equal(t, "https://cdn.example/negro-s.jpg", v.Image)
	assert.Equal(t, int64(150000), v.PriceMinor)
	assert.Equal(t, "$2,000.00", v.CompareAtPrice)
	require.NotNil(t, v.DiscountPercentage)
	assert.Equal(t, 25, *v.DiscountPercentage)
	assert.Equal(t, []string{BadgeDiscount, BadgeFeatured}, v.Badges)
	assert.True(t, v.CanAddToCart)
	assert.True(t, optionValue(t, v, "Size", "S").Selected)
}

func TestGetCard_SoldOutAndUnmatched(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	v, err := f.svc.GetCard(ctx, "terrario-vidrio", map[string]string{"Color": "Negro", "Size": "M"})
	require.NoError(t, err)
	assert.Equal(t, variant.StateMatched, v.State)
	assert.False(t, v.InStock)
	assert.False(t, v.CanAddToCart)
	assert.Contains(t, v.Badges, BadgeSoldOut)

	v, err = f.svc.GetCard(ctx, "terrario-vidrio", map[string]string{"Color": "Blanco", "Size": "M"})
	require.NoError(t, err)
	assert.Equal(t, variant.StateUnmatchedComplete, v.State)
	assert.False(t, v.InStock)
	assert.False(t, v.CanAddToCart)

	// With Blanco chosen, M leads nowhere.
	v, err = f.svc.GetCard(ctx, "terrario-vidrio", map[string]string{"Color": "Blanco"})
	require.NoError(t, err)
	assert.Equal(t, variant.StatePartial, v.State)
	assert.False(t, optionValue(t, v, "Size", "M").Available)
	assert.True(t, optionValue(t, v, "Size", "S").Available)
}

func TestGetCard_Errors(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetCard(ctx, "nope", nil)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	_, err = f.svc.GetCard(ctx, "terrario-vidrio", map[string]string{"Material": "Vidrio"})
	assert.ErrorIs(t, err, utils.ErrInvalidOption)

	_, err = f.svc.GetCard(ctx, "terrario-vidrio", map[string]string{"Color": "Rojo"})
	assert.ErrorIs(t, err, utils.ErrInvalidOption)
}

func TestGetCard_ReadsThroughCache(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetCard(ctx, "terrario-vidrio", nil)
	require.NoError(t, err)
	_, err = f.svc.GetCard(ctx, "terrario-vidrio", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, f.repo.reads)
	assert.Contains(t, f.cache.items, "terrario-vidrio")
}

func TestAvailability(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	res, err := f.svc.Availability(ctx, "terrario-vidrio", map[string]string{"Color": "Blanco"}, "Size", "M")
	require.NoError(t, err)
	assert.False(t, res.Available)

	res, err = f.svc.Availability(ctx, "terrario-vidrio", map[string]string{"Color": "Negro"}, "Size", "M")
	require.NoError(t, err)
	assert.True(t, res.Available)

	_, err = f.svc.Availability(ctx, "terrario-vidrio", nil, "Material", "Vidrio")
	require.ErrorIs(t, err, utils.ErrInvalidOption)
	assert.ErrorIs(t, err, variant.ErrUnknownOption)

	_, err = f.svc.Availability(ctx, "terrario-vidrio", nil, "Size", "XXL")
	require.ErrorIs(t, err, utils.ErrInvalidOption)
	assert.ErrorIs(t, err, variant.ErrUnknownValue)
}

func TestAddToCart(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	res, err := f.svc.AddToCart(ctx, "terrario-vidrio", "cart-1", map[string]string{"Color": "Negro", "Size": "S"})
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Equal(t, []cache.CartItem{{VariantID: "v-negro-s", Quantity: 1}}, res.Cart.Items)
	assert.Equal(t, "1", res.Cart.Badge)

	// Incomplete selection: nothing is added.
	res, err = f.svc.AddToCart(ctx, "terrario-vidrio", "cart-1", map[string]string{"Color": "Negro"})
	require.NoError(t, err)
	assert.False(t, res.Added)
	assert.Equal(t, 1, res.Cart.TotalItems)

	// Products without options go in under the product id.
	res, err = f.svc.AddToCart(ctx, "sustrato-coco", "cart-1", nil)
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Equal(t, 2, res.Cart.TotalItems)
	assert.Equal(t, 1, f.carts.lines["cart-1"]["prod-sustrato"])
}

func TestListCards(t *testing.T) {
	f := newProductFixture(t)

	cards, res, err := f.svc.ListCards(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalItems)
	require.Len(t, cards, 2)
	assert.Equal(t, "sustrato-coco", cards[0].Slug)
	assert.Equal(t, variant.StateDefault, cards[0].State)
	assert.True(t, cards[0].CanAddToCart)
	assert.Equal(t, variant.StateUnselected, cards[1].State)
}

func TestCartSummary_Badge(t *testing.T) {
	backend := newFakeCartBackend()
	svc := NewCartService(backend)
	ctx := context.Background()

	s, err := svc.Summary(ctx, "empty")
	require.NoError(t, err)
	assert.Zero(t, s.TotalItems)
	assert.Empty(t, s.Badge)
	assert.NotNil(t, s.Items)

	svc.Bind(ctx, "big").AddItem("v1", 120)
	s, err = svc.Summary(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, "99+", s.Badge)
}
