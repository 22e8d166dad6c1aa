package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Option is a named axis of product configuration (e.g. "Color") with an
// ordered set of permissible values.
type Option struct {
	Name     string            `json:"name" yaml:"name" validate:"required"`
	Values   []string          `json:"values" yaml:"values" validate:"required,min=1,dive,required"`
	Swatches map[string]string `json:"swatches,omitempty" yaml:"swatches,omitempty"`
}

// Variant is one purchasable SKU identified by a complete assignment of
// values to every option of its product (its signature).
type Variant struct {
	ID             string            `json:"id" yaml:"id" validate:"required"`
	OptionValues   map[string]string `json:"optionValues" yaml:"optionValues"`
	Price          int64             `json:"price" yaml:"price" validate:"gte=0"`
	CompareAtPrice *int64            `json:"compareAtPrice,omitempty" yaml:"compareAtPrice,omitempty"`
	Image          string            `json:"image,omitempty" yaml:"image,omitempty"`
	Available      bool              `json:"available" yaml:"available"`
}

// Product is an immutable catalog record. Prices are stored in minor units.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID             string      `db:"id" json:"id"`
	Slug           string      `db:"slug" json:"slug"`
	Title          string      `db:"title" json:"title"`
	Description    string      `db:"description" json:"description"`
	Images         StringList  `db:"images" json:"images"`
	Featured       bool        `db:"featured" json:"featured"`
	Options        OptionList  `db:"options" json:"options"`
	Variants       VariantList `db:"variants" json:"variants"`
	Price          int64       `db:"price" json:"price"`
	CompareAtPrice *int64      `db:"compare_at_price" json:"compareAtPrice,omitempty"`
	Available      bool        `db:"available" json:"available"`
	CollectionID   *string     `db:"collection_id" json:"collectionId,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"-"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updatedAt"`
}

// HasOptions reports whether the product is configurable.
func (p *Product) HasOptions() bool {
	return len(p.Options) > 0
}

// Option returns the declared option with the given name.
func (p *Product) Option(name string) (*Option, bool) {
	for i := range p.Options {
		if p.Options[i].Name == name {
			return &p.Options[i], true
		}
	}
	return nil, false
}

// HasValue reports whether value is one of the option's declared values.
func (o *Option) HasValue(value string) bool {
	for _, v := range o.Values {
		if v == value {
			return true
		}
	}
	return false
}

// JSONB column types.
type (
	StringList  []string
	OptionList  []Option
	VariantList []Variant
)

func scanJSON(value interface{}, dest interface{}, name string) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan " + name)
	}
	return json.Unmarshal(raw, dest)
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = make(StringList, 0)
		return nil
	}
	return scanJSON(value, s, "StringList")
}

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(s))
}

// Scan implements sql.Scanner.
func (o *OptionList) Scan(value interface{}) error {
	if value == nil {
		*o = make(OptionList, 0)
		return nil
	}
	return scanJSON(value, o, "OptionList")
}

// Value implements driver.Valuer.
func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		return json.Marshal([]Option{})
	}
	return json.Marshal([]Option(o))
}

// Scan implements sql.Scanner.
func (v *VariantList) Scan(value interface{}) error {
	if value == nil {
		*v = make(VariantList, 0)
		return nil
	}
	return scanJSON(value, v, "VariantList")
}

// Value implements driver.Valuer.
func (v VariantList) Value() (driver.Value, error) {
	if v == nil {
		return json.Marshal([]Variant{})
	}
	return json.Marshal([]Variant(v))
}
