package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// Catalog is the document accepted by the seeder.
type Catalog struct {
	Collections []models.Collection `json:"collections" yaml:"collections"`
	Products    []ProductRecord     `json:"products" yaml:"products"`
}

// ProductRecord is a product as written in a catalog document. Collection
// holds the collection id.
type ProductRecord struct {
	ID             string           `json:"id" yaml:"id"`
	Slug           string           `json:"slug" yaml:"slug" validate:"required,max=160,slug"`
	Title          string           `json:"title" yaml:"title" validate:"required,max=255"`
	Description    string           `json:"description" yaml:"description"`
	Images         []string         `json:"images" yaml:"images" validate:"omitempty,dive,url"`
	Featured       bool             `json:"featured" yaml:"featured"`
	Collection     string           `json:"collection" yaml:"collection"`
	Options        []models.Option  `json:"options" yaml:"options" validate:"omitempty,dive"`
	Variants       []models.Variant `json:"variants" yaml:"variants" validate:"omitempty,dive"`
	Price          int64            `json:"price" yaml:"price" validate:"gte=0"`
	CompareAtPrice *int64           `json:"compareAtPrice" yaml:"compareAtPrice" validate:"omitempty,gte=0"`
	Available      *bool            `json:"available" yaml:"available"`
}

// Product converts the record to the stored model. Availability defaults to
// true when the document omits it.
func (r *ProductRecord) Product() *models.Product {
	p := &models.Product{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          strings.TrimSpace(r.Title),
		Description:    r.Description,
		Images:         models.StringList(r.Images),
		Featured:       r.Featured,
		Options:        models.OptionList(r.Options),
		Variants:       models.VariantList(r.Variants),
		Price:          r.Price,
		CompareAtPrice: r.CompareAtPrice,
		Available:      true,
	}
	if r.Available != nil {
		p.Available = *r.Available
	}
	if r.Collection != "" {
		id := r.Collection
		p.CollectionID = &id
	}
	return p
}

// Decode parses a catalog document. The format is picked from name's
// extension: .yaml and .yml are YAML, .json is JSON. Unknown fields are
// rejected in both.
func Decode(name string, r io.Reader) (*Catalog, error) {
	var c Catalog
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode yaml %s: %w", name, err)
		}
	case ".json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode json %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return &c, nil
}
