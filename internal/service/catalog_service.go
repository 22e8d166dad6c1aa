package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/sse"
	"github.com/GTDGit/gtd_storefront/internal/utils"
	"github.com/GTDGit/gtd_storefront/internal/variant"
)

// ProductWriter is the full product repository used by catalog management.
type ProductWriter interface {
	GetByID(id string) (*models.Product, error)
	List(filter repository.ProductFilter) (*repository.ProductListResult, error)
	Create(p *models.Product) error
	Update(p *models.Product) error
	Delete(id string) error
}

// CollectionStore is the collection repository.
type CollectionStore interface {
	List() ([]models.Collection, error)
	GetByID(id string) (*models.Collection, error)
	Upsert(c *models.Collection) error
}

// CatalogService handles admin product and collection management.
type CatalogService struct {
	productRepo    ProductWriter
	collectionRepo CollectionStore
	cache          ProductSnapshotCache
	notifier       sse.CatalogNotifier
}

// NewCatalogService constructs a CatalogService. cache may be nil; a nil
// notifier disables events.
func NewCatalogService(productRepo ProductWriter, collectionRepo CollectionStore, cache ProductSnapshotCache, notifier sse.CatalogNotifier) *CatalogService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &CatalogService{
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
		cache:          cache,
		notifier:       notifier,
	}
}

// ProductRequest is the admin payload for creating or replacing a product.
type ProductRequest struct {
	Slug           string           `json:"slug" validate:"required,max=160,slug"`
	Title          string           `json:"title" validate:"required,max=255"`
	Description    string           `json:"description"`
	Images         []string         `json:"images"`
	Featured       bool             `json:"featured"`
	Options        []models.Option  `json:"options" validate:"omitempty,dive"`
	Variants       []models.Variant `json:"variants" validate:"omitempty,dive"`
	Price          int64            `json:"price" validate:"gte=0"`
	CompareAtPrice *int64           `json:"compareAtPrice" validate:"omitempty,gte=0"`
	Available      *bool            `json:"available"`
	CollectionID   *string          `json:"collectionId"`
}

// CatalogValidationError carries the anomalies that rejected a write.
type CatalogValidationError struct {
	Anomalies []variant.Anomaly
}

func (e *CatalogValidationError) Error() string {
	msgs := make([]string, 0, len(e.Anomalies))
	for _, a := range e.Anomalies {
		msgs = append(msgs, a.String())
	}
	return fmt.Sprintf("%s: %s", utils.ErrInvalidCatalog, strings.Join(msgs, "; "))
}

func (e *CatalogValidationError) Unwrap() error { return utils.ErrInvalidCatalog }

// ListProducts returns a page of products for the admin table.
func (s *CatalogService) ListProducts(filter repository.ProductFilter) (*repository.ProductListResult, error) {
	return s.productRepo.List(filter)
}

// GetProduct retrieves a product by ID.
func (s *CatalogService) GetProduct(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// CreateProduct validates and stores a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	p := &models.Product{}
	req.apply(p)
	if err := s.checkProduct(p); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(p); err != nil {
		return nil, err
	}

	log.Info().Str("product_id", p.ID).Str("slug", p.Slug).Msg("Product created")
	s.invalidate(ctx, p.Slug)
	s.notifier.NotifyProductUpdated(p)
	return p, nil
}

// UpdateProduct replaces a product's content.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req *ProductRequest) (*models.Product, error) {
	p, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	oldSlug := p.Slug

	req.apply(p)
	if err := s.checkProduct(p); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(p); err != nil {
		return nil, err
	}

	log.Info().Str("product_id", p.ID).Str("slug", p.Slug).Msg("Product updated")
	s.invalidate(ctx, oldSlug, p.Slug)
	s.notifier.NotifyProductUpdated(p)
	return p, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	log.Info().Str("product_id", p.ID).Str("slug", p.Slug).Msg("Product deleted")
	s.invalidate(ctx, p.Slug)
	s.notifier.NotifyProductDeleted(p)
	return nil
}

// AuditProduct runs the integrity checks on a stored product.
func (s *CatalogService) AuditProduct(id string) ([]variant.Anomaly, error) {
	p, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	anomalies := variant.Validate(p)
	if anomalies == nil {
		anomalies = []variant.Anomaly{}
	}
	return anomalies, nil
}

// ListCollections returns all collections, featured first.
func (s *CatalogService) ListCollections() ([]models.Collection, error) {
	return s.collectionRepo.List()
}

// UpsertCollections creates or updates each collection in order.
func (s *CatalogService) UpsertCollections(collections []models.Collection) ([]models.Collection, error) {
	for i := range collections {
		if err := s.collectionRepo.Upsert(&collections[i]); err != nil {
			return nil, fmt.Errorf("collection %q: %w", collections[i].ID, err)
		}
	}
	return collections, nil
}

func (s *CatalogService) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, slugs...); err != nil {
		log.Warn().Err(err).Strs("slugs", slugs).Msg("Failed to invalidate product cache")
	}
}

func (r *ProductRequest) apply(p *models.Product) {
	p.Slug = strings.TrimSpace(r.Slug)
	p.Title = strings.TrimSpace(r.Title)
	p.Description = r.Description
	p.Images = models.StringList(r.Images)
	p.Featured = r.Featured
	p.Options = models.OptionList(r.Options)
	p.Variants = models.VariantList(r.Variants)
	p.Price = r.Price
	p.CompareAtPrice = r.CompareAtPrice
	p.Available = r.Available == nil || *r.Available
	p.CollectionID = r.CollectionID
}

// checkProduct rejects products whose variant data would make resolution
// ambiguous or impossible, and products that reference a missing collection.
func (s *CatalogService) checkProduct(p *models.Product) error {
	if anomalies := variant.Validate(p); len(anomalies) > 0 {
		return &CatalogValidationError{Anomalies: anomalies}
	}
	if p.CollectionID != nil && *p.CollectionID != "" {
		if _, err := s.collectionRepo.GetByID(*p.CollectionID); err != nil {
			return err
		}
	}
	return nil
}
