// Package variant resolves a product's option selection to a purchasable
// variant and derives the pricing and stock facts shown on a product card.
//
// All derived values are recomputed from (Product, Selection) by Derive.
// Nothing derived is stored, so it can never drift from the selection.
package variant

import (
	"math"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// State describes where a selection stands relative to the catalog.
type State string

const (
	// StateDefault applies to products without options; the implicit
	// default variant is always in effect.
	StateDefault           State = "default"
	StateUnselected        State = "unselected"
	StatePartial           State = "partial"
	StateMatched           State = "matched"
	StateUnmatchedComplete State = "unmatched_complete"
)

// Derived is the full set of facts derived from a product and a selection.
type Derived struct {
	State              State
	MatchingVariant    *models.Variant
	CurrentPrice       int64
	CurrentCompareAt   *int64
	DiscountPercentage *int
	InStock            bool
	CanAddToCart       bool
	// CartItemID is the identifier handed to the cart on add. Empty unless
	// CanAddToCart is true.
	CartItemID string
	// DuplicateMatch is set when more than one variant carries the
	// matched signature. The first one in catalog order was chosen.
	DuplicateMatch bool
}

// Derive computes the derived state for selection s over product p.
// p is never modified.
func Derive(p *models.Product, s Selection) Derived {
	if !p.HasOptions() {
		return deriveDefault(p)
	}

	d := Derived{}
	match, dup := findMatch(p, s)
	d.MatchingVariant = match
	d.DuplicateMatch = dup
	d.CurrentPrice, d.CurrentCompareAt = pricing(p, match)
	d.DiscountPercentage = Discount(d.CurrentPrice, d.CurrentCompareAt)

	switch {
	case match != nil:
		d.State = StateMatched
		d.InStock = match.Available
		d.CanAddToCart = match.Available
		if d.CanAddToCart {
			d.CartItemID = match.ID
		}
	case s.Complete(p):
		d.State = StateUnmatchedComplete
	default:
		if s.assigned(p) == 0 {
			d.State = StateUnselected
		} else {
			d.State = StatePartial
		}
		d.InStock = anyAvailable(p, s)
	}
	return d
}

// deriveDefault handles unconfigured products. The first catalog variant,
// when present, stands in for the default variant; otherwise the
// product-level availability flag is the stock signal.
func deriveDefault(p *models.Product) Derived {
	d := Derived{State: StateDefault}
	d.CurrentPrice, d.CurrentCompareAt = pricing(p, nil)
	d.DiscountPercentage = Discount(d.CurrentPrice, d.CurrentCompareAt)

	itemID := p.ID
	d.InStock = p.Available
	if len(p.Variants) > 0 {
		d.InStock = p.Variants[0].Available
		itemID = p.Variants[0].ID
	}
	d.CanAddToCart = d.InStock && itemID != ""
	if d.CanAddToCart {
		d.CartItemID = itemID
	}
	return d
}

// findMatch returns the first variant whose signature equals the selection.
// A selection that does not cover every option never matches.
func findMatch(p *models.Product, s Selection) (*models.Variant, bool) {
	if !s.Complete(p) {
		return nil, false
	}
	var match *models.Variant
	for i := range p.Variants {
		v := &p.Variants[i]
		if !compatible(p, v, s, "") {
			continue
		}
		if match != nil {
			return match, true
		}
		match = v
	}
	return match, false
}

func pricing(p *models.Product, v *models.Variant) (int64, *int64) {
	if v == nil {
		return p.Price, p.CompareAtPrice
	}
	compareAt := v.CompareAtPrice
	if compareAt == nil {
		compareAt = p.CompareAtPrice
	}
	return v.Price, compareAt
}

// Discount returns the rounded percentage saved against compareAt. It is nil
// (no discount configured) unless compareAt is set and strictly greater
// than price.
func Discount(price int64, compareAt *int64) *int {
	if compareAt == nil || *compareAt <= price || *compareAt <= 0 {
		return nil
	}
	pct := int(math.Round((1 - float64(price)/float64(*compareAt)) * 100))
	return &pct
}

// anyAvailable reports whether some in-stock variant is still reachable from
// the partial selection s.
func anyAvailable(p *models.Product, s Selection) bool {
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.Available && compatible(p, v, s, "") {
			return true
		}
	}
	return false
}
