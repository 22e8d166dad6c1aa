// Package importer loads catalog documents into the product store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/utils"
	"github.com/GTDGit/gtd_storefront/internal/variant"
)

// ProductUpserter writes products keyed by slug.
type ProductUpserter interface {
	Upsert(product *models.Product) error
}

// CollectionStore writes collections keyed by id and resolves references to
// collections the document does not declare.
type CollectionStore interface {
	GetByID(id string) (*models.Collection, error)
	Upsert(collection *models.Collection) error
}

// ProductError collects the problems found in one product record.
type ProductError struct {
	Slug      string
	Fields    []utils.FieldError
	Anomalies []variant.Anomaly
}

// ValidationError is returned when any record in a document is invalid.
// Nothing is written in that case.
type ValidationError struct {
	Collections []utils.FieldError
	Products    []ProductError
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, f := range e.Collections {
		parts = append(parts, "collections."+f.Field+": "+f.Tag)
	}
	for _, p := range e.Products {
		for _, f := range p.Fields {
			parts = append(parts, fmt.Sprintf("%s.%s: %s", p.Slug, f.Field, f.Tag))
		}
		for _, a := range p.Anomalies {
			parts = append(parts, fmt.Sprintf("%s: %s", p.Slug, a))
		}
	}
	return "invalid catalog: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return utils.ErrInvalidCatalog }

// Result counts the records written.
type Result struct {
	Collections int
	Products    int
}

// Importer validates catalog documents and upserts them.
type Importer struct {
	loader      *Loader
	products    ProductUpserter
	collections CollectionStore
}

// New constructs an Importer.
func New(loader *Loader, products ProductUpserter, collections CollectionStore) *Importer {
	return &Importer{loader: loader, products: products, collections: collections}
}

// Import reads source, validates the whole document and writes it.
func (im *Importer) Import(ctx context.Context, source string) (*Result, error) {
	rc, err := im.loader.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	catalog, err := Decode(source, rc)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", source).
		Int("collections", len(catalog.Collections)).
		Int("products", len(catalog.Products)).
		Msg("Catalog document loaded")

	return im.Apply(catalog)
}

// Apply validates c and, if it is clean, upserts collections then products.
func (im *Importer) Apply(c *Catalog) (*Result, error) {
	products, err := im.check(c)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i := range c.Collections {
		if err := im.collections.Upsert(&c.Collections[i]); err != nil {
			return res, fmt.Errorf("upsert collection %q: %w", c.Collections[i].ID, err)
		}
		res.Collections++
	}
	for _, p := range products {
		if err := im.products.Upsert(p); err != nil {
			return res, fmt.Errorf("upsert product %q: %w", p.Slug, err)
		}
		res.Products++
		log.Debug().Str("product_id", p.ID).Str("slug", p.Slug).Msg("Product imported")
	}

	log.Info().Int("collections", res.Collections).Int("products", res.Products).Msg("Catalog imported")
	return res, nil
}

// check runs struct validation and variant validation over every record and
// returns the converted products. A product's collection must be declared in
// the document or already stored.
func (im *Importer) check(c *Catalog) ([]*models.Product, error) {
	verr := &ValidationError{}

	declared := make(map[string]bool, len(c.Collections))
	for i := range c.Collections {
		if err := utils.ValidateStruct(&c.Collections[i]); err != nil {
			verr.Collections = append(verr.Collections, utils.FieldErrors(err)...)
		}
		declared[c.Collections[i].ID] = true
	}

	slugs := make(map[string]bool, len(c.Products))
	products := make([]*models.Product, 0, len(c.Products))
	for i := range c.Products {
		rec := &c.Products[i]
		perr := ProductError{Slug: rec.Slug}

		if err := utils.ValidateStruct(rec); err != nil {
			perr.Fields = utils.FieldErrors(err)
		}
		if slugs[rec.Slug] {
			perr.Fields = append(perr.Fields, utils.FieldError{Field: "slug", Tag: "unique"})
		}
		slugs[rec.Slug] = true

		if rec.Collection != "" && !declared[rec.Collection] {
			_, err := im.collections.GetByID(rec.Collection)
			switch {
			case errors.Is(err, utils.ErrCollectionNotFound):
				perr.Fields = append(perr.Fields, utils.FieldError{Field: "collection", Tag: "exists"})
			case err != nil:
				return nil, fmt.Errorf("lookup collection %q: %w", rec.Collection, err)
			default:
				declared[rec.Collection] = true
			}
		}

		p := rec.Product()
		perr.Anomalies = variant.Validate(p)

		if len(perr.Fields) > 0 || len(perr.Anomalies) > 0 {
			verr.Products = append(verr.Products, perr)
			continue
		}
		products = append(products, p)
	}

	if len(verr.Collections) > 0 || len(verr.Products) > 0 {
		return nil, verr
	}
	return products, nil
}
