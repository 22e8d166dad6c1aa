package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

const productColumns = `p.id, p.slug, p.title, p.description, p.images, p.featured, p.options, p.variants,
        p.price, p.compare_at_price, p.available, p.collection_id, p.created_at, p.updated_at`

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter holds storefront listing filters. Empty fields are ignored.
type ProductFilter struct {
	Collection string // collection slug
	Search     string // ILIKE on title
	Featured   *bool
	Page       int
	Limit      int
}

// ProductListResult is one page of products plus the total match count.
type ProductListResult struct {
	Products   []models.Product
	TotalItems int
	Page       int
	Limit      int
}

// normalize applies paging defaults and bounds.
func (f *ProductFilter) normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 24
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// buildProductWhere renders the WHERE clause for f with positional args.
func buildProductWhere(f *ProductFilter) (string, []interface{}) {
	where := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if f.Collection != "" {
		where += fmt.Sprintf(" AND c.slug = $%d", argIdx)
		args = append(args, f.Collection)
		argIdx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND p.title ILIKE $%d", argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	if f.Featured != nil {
		where += fmt.Sprintf(" AND p.featured = $%d", argIdx)
		args = append(args, *f.Featured)
	}
	return where, args
}

// List returns a page of products matching filter, featured first.
func (r *ProductRepository) List(filter ProductFilter) (*ProductListResult, error) {
	filter.normalize()
	offset := (filter.Page - 1) * filter.Limit
	where, args := buildProductWhere(&filter)

	const from = ` FROM products p LEFT JOIN collections c ON c.id = p.collection_id `

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1)`+from+where, args...); err != nil {
		return nil, err
	}

	listQuery := fmt.Sprintf(`SELECT %s%s%s
        ORDER BY p.featured DESC, p.title ASC
        LIMIT $%d OFFSET $%d`, productColumns, from, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	products := []models.Product{}
	if err := r.db.Select(&products, listQuery, args...); err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products:   products,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ListAll returns every product in catalog order. Used by the audit worker.
func (r *ProductRepository) ListAll() ([]models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products p ORDER BY p.created_at, p.id`
	var products []models.Product
	if err := r.db.Select(&products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// GetBySlug returns a single product by slug.
func (r *ProductRepository) GetBySlug(slug string) (*models.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products p WHERE p.slug = $1 LIMIT 1`, slug)
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products p WHERE p.id = $1 LIMIT 1`, id)
}

func (r *ProductRepository) getOne(q string, arg interface{}) (*models.Product, error) {
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var p models.Product
	if err := stmt.Get(&p, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a product. An empty ID lets the database generate one.
func (r *ProductRepository) Create(product *models.Product) error {
	query := `INSERT INTO products (id, slug, title, description, images, featured, options, variants,
                  price, compare_at_price, available, collection_id)
              VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
              RETURNING id, created_at, updated_at`

	err := r.db.QueryRowx(query,
		product.ID,
		product.Slug,
		product.Title,
		product.Description,
		product.Images,
		product.Featured,
		product.Options,
		product.Variants,
		product.Price,
		product.CompareAtPrice,
		product.Available,
		product.CollectionID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	return mapWriteError(err)
}

// Update replaces every mutable column of an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	query := `UPDATE products
              SET slug = $1, title = $2, description = $3, images = $4, featured = $5,
                  options = $6, variants = $7, price = $8, compare_at_price = $9,
                  available = $10, collection_id = $11, updated_at = NOW()
              WHERE id = $12
              RETURNING created_at, updated_at`

	err := r.db.QueryRowx(query,
		product.Slug,
		product.Title,
		product.Description,
		product.Images,
		product.Featured,
		product.Options,
		product.Variants,
		product.Price,
		product.CompareAtPrice,
		product.Available,
		product.CollectionID,
		product.ID,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrProductNotFound
	}
	return mapWriteError(err)
}

// Upsert inserts or replaces a product keyed by slug. Used by the importer.
func (r *ProductRepository) Upsert(product *models.Product) error {
	const q = `
        INSERT INTO products (id, slug, title, description, images, featured, options, variants,
            price, compare_at_price, available, collection_id)
        VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (slug) DO UPDATE SET
            title = EXCLUDED.title,
            description = EXCLUDED.description,
            images = EXCLUDED.images,
            featured = EXCLUDED.featured,
            options = EXCLUDED.options,
            variants = EXCLUDED.variants,
            price = EXCLUDED.price,
            compare_at_price = EXCLUDED.compare_at_price,
            available = EXCLUDED.available,
            collection_id = EXCLUDED.collection_id,
            updated_at = NOW()
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		product.ID,
		product.Slug,
		product.Title,
		product.Description,
		product.Images,
		product.Featured,
		product.Options,
		product.Variants,
		product.Price,
		product.CompareAtPrice,
		product.Available,
		product.CollectionID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

// Delete deletes a product by ID.
func (r *ProductRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return utils.ErrProductNotFound
	}
	return nil
}

// mapWriteError translates unique violations on slug into ErrSlugTaken and
// foreign key violations on collection_id into ErrCollectionNotFound.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505":
		return utils.ErrSlugTaken
	case "23503":
		return utils.ErrCollectionNotFound
	}
	return err
}
