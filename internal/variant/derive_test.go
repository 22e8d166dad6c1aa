package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

func i64(v int64) *int64 { return &v }

// lizardHarness is the Color x Size product used across the tests:
// Red/S $10 in stock, Red/M $12 sold out, Blue/S $11 in stock.
func lizardHarness() *models.Product {
	return &models.Product{
		ID:    "p-harness",
		Slug:  "arnes-lagarto",
		Title: "Arnés para lagarto",
		Price: 1000,
		Options: models.OptionList{
			{Name: "Color", Values: []string{"Red", "Blue"}, Swatches: map[string]string{"Red": "#ff0000", "Blue": "#0000ff"}},
			{Name: "Size", Values: []string{"S", "M"}},
		},
		Variants: models.VariantList{
			{ID: "v-red-s", OptionValues: map[string]string{"Color": "Red", "Size": "S"}, Price: 1000, Available: true},
			{ID: "v-red-m", OptionValues: map[string]string{"Color": "Red", "Size": "M"}, Price: 1200, Available: false},
			{ID: "v-blue-s", OptionValues: map[string]string{"Color": "Blue", "Size": "S"}, Price: 1100, Available: true},
		},
	}
}

func TestDerive_ScenarioA(t *testing.T) {
	card := NewCard(lizardHarness())

	require.NoError(t, card.SelectOption("Color", "Blue"))
	assert.False(t, card.IsOptionValueAvailable("Size", "M"))
	assert.True(t, card.IsOptionValueAvailable("Size", "S"))

	require.NoError(t, card.SelectOption("Size", "S"))
	d := card.Derived()
	require.NotNil(t, d.MatchingVariant)
	assert.Equal(t, "v-blue-s", d.MatchingVariant.ID)
	assert.Equal(t, int64(1100), d.CurrentPrice)
	assert.True(t, d.CanAddToCart)
	assert.Equal(t, StateMatched, d.State)
	assert.Equal(t, "v-blue-s", d.CartItemID)
}

func TestDerive_ScenarioB(t *testing.T) {
	card := NewCard(lizardHarness())
	require.NoError(t, card.SelectOption("Color", "Red"))
	require.NoError(t, card.SelectOption("Size", "M"))

	d := card.Derived()
	require.NotNil(t, d.MatchingVariant)
	assert.Equal(t, "v-red-m", d.MatchingVariant.ID)
	assert.False(t, d.InStock)
	assert.False(t, d.CanAddToCart)
	assert.Empty(t, d.CartItemID)
}

func TestDerive_ScenarioC(t *testing.T) {
	p := &models.Product{ID: "p-food", Price: 50, CompareAtPrice: i64(50), Available: true}

	d := Derive(p, Selection{})
	assert.Nil(t, d.DiscountPercentage)
	assert.Nil(t, d.MatchingVariant)
	assert.Equal(t, int64(50), d.CurrentPrice)
	assert.Equal(t, StateDefault, d.State)
}

func TestDerive_NoOptionsUsesProductPricing(t *testing.T) {
	p := &models.Product{
		ID:             "p-lamp",
		Price:          8000,
		CompareAtPrice: i64(10000),
		Variants:       models.VariantList{{ID: "v-lamp", Price: 1, Available: true}},
	}

	d := Derive(p, Selection{"Color": "Red"})
	assert.Nil(t, d.MatchingVariant)
	assert.Equal(t, int64(8000), d.CurrentPrice)
	require.NotNil(t, d.CurrentCompareAt)
	assert.Equal(t, int64(10000), *d.CurrentCompareAt)
	require.NotNil(t, d.DiscountPercentage)
	assert.Equal(t, 20, *d.DiscountPercentage)
	assert.True(t, d.InStock)
	assert.True(t, d.CanAddToCart)
	assert.Equal(t, "v-lamp", d.CartItemID)
}

func TestDerive_NoOptionsWithoutVariantsFallsBackToProduct(t *testing.T) {
	p := &models.Product{ID: "p-book", Price: 2000}
	d := Derive(p, nil)
	assert.False(t, d.InStock)
	assert.False(t, d.CanAddToCart)

	p.Available = true
	d = Derive(p, nil)
	assert.True(t, d.CanAddToCart)
	assert.Equal(t, "p-book", d.CartItemID)
}

func TestDerive_PartialSelectionNeverMatches(t *testing.T) {
	p := lizardHarness()
	for _, s := range []Selection{{}, {"Color": "Red"}, {"Size": "S"}, {"Color": "Blue"}} {
		d := Derive(p, s)
		assert.Nil(t, d.MatchingVariant, "selection %v", s)
		assert.False(t, d.CanAddToCart, "selection %v", s)
		assert.Equal(t, p.Price, d.CurrentPrice, "selection %v", s)
	}
	assert.Equal(t, StateUnselected, Derive(p, Selection{}).State)
	assert.Equal(t, StatePartial, Derive(p, Selection{"Size": "M"}).State)
}

func TestDerive_PartialStockReflectsReachableVariants(t *testing.T) {
	p := lizardHarness()
	assert.True(t, Derive(p, Selection{}).InStock)
	assert.True(t, Derive(p, Selection{"Color": "Red"}).InStock)
	// Only Red/M has size M and it is sold out.
	assert.False(t, Derive(p, Selection{"Size": "M"}).InStock)
}

func TestDerive_CompleteSelectionWithoutVariant(t *testing.T) {
	p := lizardHarness()
	d := Derive(p, Selection{"Color": "Blue", "Size": "M"})
	assert.Equal(t, StateUnmatchedComplete, d.State)
	assert.Nil(t, d.MatchingVariant)
	assert.False(t, d.InStock)
	assert.False(t, d.CanAddToCart)
	assert.Equal(t, p.Price, d.CurrentPrice)
}

func TestDerive_ConfigurableProductWithoutVariants(t *testing.T) {
	p := lizardHarness()
	p.Variants = nil

	d := Derive(p, Selection{"Color": "Red", "Size": "S"})
	assert.Equal(t, StateUnmatchedComplete, d.State)
	assert.False(t, d.CanAddToCart)
	assert.Equal(t, int64(1000), d.CurrentPrice)
}

func TestDerive_EveryVariantResolvesToItself(t *testing.T) {
	p := lizardHarness()
	for i := range p.Variants {
		v := p.Variants[i]
		d := Derive(p, Selection(v.OptionValues).Clone())
		require.NotNil(t, d.MatchingVariant)
		assert.Equal(t, v.ID, d.MatchingVariant.ID)
		assert.Equal(t, v.Price, d.CurrentPrice)
	}
}

func TestDerive_VariantCompareAtOverridesProduct(t *testing.T) {
	p := lizardHarness()
	p.CompareAtPrice = i64(1500)
	p.Variants[2].CompareAtPrice = i64(2200)

	d := Derive(p, Selection{"Color": "Blue", "Size": "S"})
	require.NotNil(t, d.CurrentCompareAt)
	assert.Equal(t, int64(2200), *d.CurrentCompareAt)
	require.NotNil(t, d.DiscountPercentage)
	assert.Equal(t, 50, *d.DiscountPercentage)

	// Red/S has no compare-at of its own and inherits the product's.
	d = Derive(p, Selection{"Color": "Red", "Size": "S"})
	require.NotNil(t, d.CurrentCompareAt)
	assert.Equal(t, int64(1500), *d.CurrentCompareAt)
	require.NotNil(t, d.DiscountPercentage)
	assert.Equal(t, 33, *d.DiscountPercentage)
}

func TestDerive_DuplicateSignatureFirstWins(t *testing.T) {
	p := lizardHarness()
	p.Variants = append(p.Variants, models.Variant{
		ID: "v-blue-s-dup", OptionValues: map[string]string{"Color": "Blue", "Size": "S"}, Price: 9999, Available: true,
	})

	d := Derive(p, Selection{"Color": "Blue", "Size": "S"})
	require.NotNil(t, d.MatchingVariant)
	assert.Equal(t, "v-blue-s", d.MatchingVariant.ID)
	assert.True(t, d.DuplicateMatch)
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name      string
		price     int64
		compareAt *int64
		want      *int
	}{
		{"absent compare-at", 80, nil, nil},
		{"equal prices", 50, i64(50), nil},
		{"compare-at below price", 120, i64(100), nil},
		{"twenty percent", 80, i64(100), intPtr(20)},
		{"rounds half up", 125, i64(1000), intPtr(88)},
		{"rounds down", 999, i64(1500), intPtr(33)},
		{"tiny discount rounds to zero", 999, i64(1000), intPtr(0)},
		{"free item", 0, i64(100), intPtr(100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Discount(tt.price, tt.compareAt)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func intPtr(v int) *int { return &v }
