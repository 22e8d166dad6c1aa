package variant

import (
	"fmt"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// Cart receives add-to-cart commands. Calls are fire-and-forget: the card
// neither waits for nor inspects the outcome.
type Cart interface {
	AddItem(variantID string, quantity int)
}

// Reporter receives data-integrity anomalies noticed while deriving.
type Reporter func(Anomaly)

// CardOption configures a Card.
type CardOption func(*Card)

// WithCart sets the cart collaborator used by HandleAddToCart.
func WithCart(c Cart) CardOption {
	return func(card *Card) { card.cart = c }
}

// WithReporter sets the anomaly reporter.
func WithReporter(r Reporter) CardOption {
	return func(card *Card) { card.report = r }
}

// Card holds the selection state of one product card. Cards share nothing,
// so every product on a page gets its own. A Card is not safe for
// concurrent use.
type Card struct {
	product   *models.Product
	selection Selection
	cart      Cart
	report    Reporter
}

// NewCard creates a card with an empty selection.
func NewCard(p *models.Product, opts ...CardOption) *Card {
	c := &Card{product: p, selection: Selection{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Product returns the card's product.
func (c *Card) Product() *models.Product {
	return c.product
}

// SelectOption sets the value for one option, replacing any earlier value
// for it. Other options keep their values. Unknown names or values are
// rejected and leave the selection untouched.
func (c *Card) SelectOption(name, value string) error {
	opt, ok := c.product.Option(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	if !opt.HasValue(value) {
		return fmt.Errorf("%w: %q for option %q", ErrUnknownValue, value, name)
	}
	c.selection[name] = value
	return nil
}

// Selected returns a copy of the current selection.
func (c *Card) Selected() Selection {
	return c.selection.Clone()
}

// Reset clears the selection, as when the card is pointed at a new product.
func (c *Card) Reset(p *models.Product) {
	c.product = p
	c.selection = Selection{}
}

// Derived recomputes the derived state for the current selection.
func (c *Card) Derived() Derived {
	d := Derive(c.product, c.selection)
	if d.DuplicateMatch && c.report != nil {
		c.report(Anomaly{
			Kind:      AnomalyDuplicateSignature,
			ProductID: c.product.ID,
			VariantID: d.MatchingVariant.ID,
			Detail:    "selection matched more than one variant; first one used",
		})
	}
	return d
}

// IsOptionValueAvailable reports whether choosing value for the named option,
// together with the other options already selected, still leads to at least
// one variant. Stock is ignored.
func (c *Card) IsOptionValueAvailable(name, value string) bool {
	return IsOptionValueAvailable(c.product, c.selection, name, value)
}

// HandleAddToCart adds one unit of the resolved variant to the cart when the
// card can be added. It reports whether the cart was called.
func (c *Card) HandleAddToCart() bool {
	d := c.Derived()
	if !d.CanAddToCart || c.cart == nil {
		return false
	}
	c.cart.AddItem(d.CartItemID, 1)
	return true
}

// IsOptionValueAvailable is the stateless form of Card.IsOptionValueAvailable.
func IsOptionValueAvailable(p *models.Product, s Selection, name, value string) bool {
	opt, ok := p.Option(name)
	if !ok || !opt.HasValue(value) {
		return false
	}
	if len(p.Variants) == 0 {
		return true
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.OptionValues[name] != value {
			continue
		}
		if compatible(p, v, s, name) {
			return true
		}
	}
	return false
}
