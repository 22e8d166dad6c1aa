package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// CollectionRepository handles data access for collections.
type CollectionRepository struct {
	db *sqlx.DB
}

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(db *sqlx.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// List returns all collections, featured first.
func (r *CollectionRepository) List() ([]models.Collection, error) {
	const q = `SELECT id, slug, name, description, image, featured, created_at, updated_at
        FROM collections
        ORDER BY featured DESC, name ASC`

	collections := []models.Collection{}
	if err := r.db.Select(&collections, q); err != nil {
		return nil, err
	}
	return collections, nil
}

// GetByID returns a single collection.
func (r *CollectionRepository) GetByID(id string) (*models.Collection, error) {
	var c models.Collection
	err := r.db.Get(&c, `SELECT id, slug, name, description, image, featured, created_at, updated_at
        FROM collections WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCollectionNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Upsert inserts or updates a collection by id.
func (r *CollectionRepository) Upsert(c *models.Collection) error {
	const q = `
        INSERT INTO collections (id, slug, name, description, image, featured)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
            slug = EXCLUDED.slug,
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            image = EXCLUDED.image,
            featured = EXCLUDED.featured,
            updated_at = NOW()
        RETURNING created_at, updated_at`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	err = stmt.QueryRowx(c.ID, c.Slug, c.Name, c.Description, c.Image, c.Featured).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapWriteError(err)
}
